package calendar

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontend-leeds/backend/internal/models"
)

func sample() Event {
	return Event{
		ID:          "6f1c0b9e-0c8f-4a59-9d7c-2d8b1e7f1a10",
		Title:       "Leeds JS: Signals, Stores; and You",
		Description: "Talks, pizza\nand networking",
		Location:    "Platform, Leeds",
		Start:       time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC),
		End:         time.Date(2025, 7, 1, 20, 30, 0, 0, time.UTC),
		URL:         "https://frontendleeds.com/events/1",
	}
}

func TestGeneratorsArePure(t *testing.T) {
	e := sample()
	e.Status = models.RSVPGoing
	assert.Equal(t, All(e), All(e))
}

func TestFormatDate(t *testing.T) {
	bst := time.FixedZone("BST", 3600)
	assert.Equal(t, "20250701T170000Z", FormatDate(time.Date(2025, 7, 1, 18, 0, 0, 0, bst)))
}

func TestGoogleLink(t *testing.T) {
	link := GoogleLink(sample())
	require.True(t, strings.HasPrefix(link, "https://calendar.google.com/calendar/render?action=TEMPLATE&"), link)
	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "Leeds JS: Signals, Stores; and You", q.Get("text"))
	assert.Equal(t, "Talks, pizza\nand networking", q.Get("details"))
	assert.Equal(t, "Platform, Leeds", q.Get("location"))
	assert.Equal(t, "20250701T180000Z/20250701T203000Z", q.Get("dates"))
	assert.Equal(t, "website:https://frontendleeds.com/events/1", q.Get("sprop"))

	e := sample()
	e.URL = ""
	assert.NotContains(t, GoogleLink(e), "sprop")
}

func TestStatusSentence(t *testing.T) {
	cases := map[models.RSVPStatus]string{
		models.RSVPGoing:    "I am attending this event",
		models.RSVPMaybe:    "I might attend this event",
		models.RSVPNotGoing: "I am not attending this event",
	}
	for status, sentence := range cases {
		e := sample()
		e.Status = status
		u, err := url.Parse(OutlookLink(e))
		require.NoError(t, err)
		assert.Equal(t, "Talks, pizza\nand networking\n\nRSVP Status: "+sentence, u.Query().Get("body"))
	}
	u, _ := url.Parse(OutlookLink(sample()))
	assert.NotContains(t, u.Query().Get("body"), "RSVP Status")
}

func TestOutlookLink(t *testing.T) {
	u, err := url.Parse(OutlookLink(sample()))
	require.NoError(t, err)
	assert.Equal(t, "outlook.live.com", u.Host)
	q := u.Query()
	assert.Equal(t, "/calendar/action/compose", q.Get("path"))
	assert.Equal(t, "addevent", q.Get("rru"))
	assert.Equal(t, "20250701T180000Z", q.Get("startdt"))
	assert.Equal(t, "20250701T203000Z", q.Get("enddt"))
}

func TestYahooDuration(t *testing.T) {
	u, err := url.Parse(YahooLink(sample()))
	require.NoError(t, err)
	assert.Equal(t, "60", u.Query().Get("v"))
	assert.Equal(t, "150", u.Query().Get("dur"))
	assert.Equal(t, "Platform, Leeds", u.Query().Get("in_loc"))

	e := sample()
	e.End = time.Time{}
	u, _ = url.Parse(YahooLink(e))
	assert.Equal(t, "60", u.Query().Get("dur"))
}

func TestDefaultEndIsOneHour(t *testing.T) {
	e := sample()
	e.End = time.Time{}
	u, _ := url.Parse(GoogleLink(e))
	assert.Equal(t, "20250701T180000Z/20250701T190000Z", u.Query().Get("dates"))
}

func TestICalContent(t *testing.T) {
	e := sample()
	e.Status = models.RSVPMaybe
	ics := ICalContent(e)

	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//Frontend Leeds//Calendar//EN\r\n"))
	assert.True(t, strings.HasSuffix(ics, "END:VEVENT\r\nEND:VCALENDAR\r\n"))
	assert.NotContains(t, strings.ReplaceAll(ics, "\r\n", ""), "\n")
	assert.Contains(t, ics, "UID:6f1c0b9e-0c8f-4a59-9d7c-2d8b1e7f1a10@frontendleeds.com\r\n")
	assert.Contains(t, ics, `SUMMARY:Leeds JS: Signals\, Stores\; and You`+"\r\n")
	assert.Contains(t, ics, `LOCATION:Platform\, Leeds`+"\r\n")
	assert.Contains(t, ics, "DTSTART:20250701T180000Z\r\nDTEND:20250701T203000Z\r\nDTSTAMP:20250701T180000Z\r\n")

	unfolded := strings.ReplaceAll(ics, "\r\n ", "")
	assert.Contains(t, unfolded, `DESCRIPTION:Talks\, pizza\nand networking\n\nRSVP Status: I might attend this event`)

	e.Domain = "example.org"
	e.Stamp = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	ics = ICalContent(e)
	assert.Contains(t, ics, "@example.org\r\n")
	assert.Contains(t, ics, "DTSTAMP:20250601T090000Z\r\n")
}

func TestICalEndNeverBeforeStart(t *testing.T) {
	e := sample()
	e.End = e.Start.Add(-time.Hour)
	ics := ICalContent(e)
	assert.Contains(t, ics, "DTSTART:20250701T180000Z\r\nDTEND:20250701T180000Z\r\n")
}

func TestFoldLongLines(t *testing.T) {
	e := sample()
	e.Description = strings.Repeat("é", 100)
	for _, line := range strings.Split(strings.TrimSuffix(ICalContent(e), "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), 75, line)
	}
}

func TestAppleLink(t *testing.T) {
	link := AppleLink(sample())
	require.True(t, strings.HasPrefix(link, "data:text/calendar;charset=utf-8,BEGIN%3AVCALENDAR%0D%0A"), link)
	assert.NotContains(t, link, "+")
	decoded, err := url.PathUnescape(strings.TrimPrefix(link, "data:text/calendar;charset=utf-8,"))
	require.NoError(t, err)
	assert.Equal(t, ICalContent(sample()), decoded)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "leeds-js-signals-stores-and-you.ics", Filename("Leeds JS: Signals, Stores; and You"))
	assert.Equal(t, "event.ics", Filename("!!!"))
}
