// Package calendar renders events as calendar-provider deep links and ICS payloads,
// and records which providers a member exported an event to.
package calendar

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/frontend-leeds/backend/internal/models"
)

const (
	dateLayout      = "20060102T150405Z"
	defaultDuration = time.Hour
	defaultDomain   = "frontendleeds.com"
	prodID          = "-//Frontend Leeds//Calendar//EN"

	googleBase  = "https://calendar.google.com/calendar/render?"
	outlookBase = "https://outlook.live.com/calendar/0/deeplink/compose?"
	yahooBase   = "https://calendar.yahoo.com/?"
	appleBase   = "data:text/calendar;charset=utf-8,"
)

// Event is the snapshot rendered by the generators. Zero End means one hour
// after Start; zero Stamp means Start.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	URL         string
	Status      models.RSVPStatus
	Stamp       time.Time
	// Domain is the right-hand side of the ICS UID.
	Domain string
}

// Links is every export format of one event.
type Links struct {
	Google  string `json:"google"`
	Outlook string `json:"outlook"`
	Yahoo   string `json:"yahoo"`
	Apple   string `json:"apple"`
	ICS     string `json:"ics"`
}

// StatusSentence is appended to descriptions when the member's RSVP is known.
func StatusSentence(s models.RSVPStatus) string {
	switch s {
	case models.RSVPGoing:
		return "I am attending this event"
	case models.RSVPMaybe:
		return "I might attend this event"
	case models.RSVPNotGoing:
		return "I am not attending this event"
	}
	return ""
}

// FormatDate renders t in the compact UTC form used by calendar URLs.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func (e Event) end() time.Time {
	if e.End.IsZero() {
		return e.Start.Add(defaultDuration)
	}
	if e.End.Before(e.Start) {
		return e.Start
	}
	return e.End
}

func (e Event) description() string {
	if s := StatusSentence(e.Status); s != "" {
		return e.Description + "\n\nRSVP Status: " + s
	}
	return e.Description
}

// query keeps parameters in insertion order.
type query []string

func (q *query) add(k, v string) {
	*q = append(*q, url.QueryEscape(k)+"="+url.QueryEscape(v))
}

func (q query) String() string { return strings.Join(q, "&") }

// GoogleLink returns a Google Calendar template link.
func GoogleLink(e Event) string {
	var q query
	q.add("action", "TEMPLATE")
	q.add("text", e.Title)
	q.add("details", e.description())
	q.add("location", e.Location)
	q.add("dates", FormatDate(e.Start)+"/"+FormatDate(e.end()))
	if e.URL != "" {
		q.add("sprop", "website:"+e.URL)
	}
	return googleBase + q.String()
}

// OutlookLink returns an Outlook.com compose deep link.
func OutlookLink(e Event) string {
	var q query
	q.add("path", "/calendar/action/compose")
	q.add("rru", "addevent")
	q.add("subject", e.Title)
	q.add("body", e.description())
	q.add("location", e.Location)
	q.add("startdt", FormatDate(e.Start))
	q.add("enddt", FormatDate(e.end()))
	return outlookBase + q.String()
}

// YahooLink returns a Yahoo Calendar link. dur is the event length in minutes.
func YahooLink(e Event) string {
	var q query
	q.add("v", "60")
	q.add("title", e.Title)
	q.add("desc", e.description())
	q.add("in_loc", e.Location)
	q.add("st", FormatDate(e.Start))
	q.add("dur", strconv.Itoa(int(e.end().Sub(e.Start)/time.Minute)))
	return yahooBase + q.String()
}

// AppleLink returns the ICS payload as a data URL.
func AppleLink(e Event) string {
	return appleBase + strings.ReplaceAll(url.QueryEscape(ICalContent(e)), "+", "%20")
}

// ICalContent renders a single-event VCALENDAR with CRLF line endings.
func ICalContent(e Event) string {
	domain := e.Domain
	if domain == "" {
		domain = defaultDomain
	}
	stamp := e.Stamp
	if stamp.IsZero() {
		stamp = e.Start
	}
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + prodID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + e.ID + "@" + domain,
		"SUMMARY:" + escapeText(e.Title),
		"DESCRIPTION:" + escapeText(e.description()),
		"LOCATION:" + escapeText(e.Location),
		"DTSTART:" + FormatDate(e.Start),
		"DTEND:" + FormatDate(e.end()),
		"DTSTAMP:" + FormatDate(stamp),
	}
	if e.URL != "" {
		lines = append(lines, "URL:"+e.URL)
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR")

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(fold(l))
		b.WriteString("\r\n")
	}
	return b.String()
}

// All renders every format.
func All(e Event) Links {
	return Links{
		Google:  GoogleLink(e),
		Outlook: OutlookLink(e),
		Yahoo:   YahooLink(e),
		Apple:   AppleLink(e),
		ICS:     ICalContent(e),
	}
}

// Filename is the download name of an event's ICS file.
func Filename(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "-"):
			b.WriteByte('-')
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "event"
	}
	return fmt.Sprintf("%s.ics", name)
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// fold splits content lines longer than 75 octets without breaking UTF-8 sequences.
func fold(line string) string {
	const limit = 75
	if len(line) <= limit {
		return line
	}
	var b strings.Builder
	n := 0
	for _, r := range line {
		size := len(string(r))
		room := limit
		if b.Len() > limit {
			room = limit - 1 // continuation lines start with a space
		}
		if n+size > room {
			b.WriteString("\r\n ")
			n = 0
		}
		b.WriteRune(r)
		n += size
	}
	return b.String()
}
