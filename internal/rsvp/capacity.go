package rsvp

import "math"

// Level is the display state of an event's capacity banner.
type Level string

const (
	LevelAvailable Level = "available"
	LevelLimited   Level = "limited"
	LevelFull      Level = "full"
)

const (
	LabelOpen      = "Join this event"
	LabelAvailable = "tickets available"
	LabelLimited   = "tickets left (limited)"
	// LabelFull is shown at or over capacity. RSVPs are still accepted then.
	LabelFull = "still accepting attendees"

	limitedThreshold = 80
	fullThreshold    = 100
)

// Availability describes how full an event is. Capacity is advisory only.
type Availability struct {
	Capacity *int `json:"capacity,omitempty"`
	Going    int  `json:"going"`
	// PercentFilled is not clamped and may exceed 100.
	PercentFilled int `json:"percentFilled"`
	// BarPercent is PercentFilled clamped to [0, 100] for progress bars.
	BarPercent int `json:"barPercent"`
	// TicketsAvailable is nil for events without a capacity and never negative.
	TicketsAvailable *int  `json:"ticketsAvailable,omitempty"`
	Level            Level  `json:"level"`
	Label            string `json:"label"`
}

// ComputeAvailability derives the capacity banner for going attendees.
// A nil or non-positive capacity means the event is unlimited.
func ComputeAvailability(capacity *int, going int) Availability {
	if going < 0 {
		going = 0
	}
	if capacity == nil || *capacity <= 0 {
		return Availability{Going: going, Level: LevelAvailable, Label: LabelOpen}
	}
	c := *capacity
	percent := int(math.Round(float64(going) / float64(c) * 100))
	tickets := c - going
	if tickets < 0 {
		tickets = 0
	}
	a := Availability{
		Capacity:         &c,
		Going:            going,
		PercentFilled:    percent,
		BarPercent:       percent,
		TicketsAvailable: &tickets,
	}
	if a.BarPercent > 100 {
		a.BarPercent = 100
	}
	switch {
	case percent >= fullThreshold:
		a.Level, a.Label = LevelFull, LabelFull
	case percent >= limitedThreshold:
		a.Level, a.Label = LevelLimited, LabelLimited
	default:
		a.Level, a.Label = LevelAvailable, LabelAvailable
	}
	return a
}
