package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/frontend-leeds/backend/pkg/apperr"
)

// Capacity accepts a JSON number, a numeric string, an empty string or null.
type Capacity struct {
	Set   bool
	Value int
}

func (c *Capacity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = Capacity{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*c = Capacity{}
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("capacity must be a whole number")
		}
		*c = Capacity{Set: true, Value: n}
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("capacity must be a whole number")
	}
	*c = Capacity{Set: true, Value: n}
	return nil
}

// Ptr returns the capacity as a nullable int.
func (c Capacity) Ptr() *int {
	if !c.Set {
		return nil
	}
	v := c.Value
	return &v
}

// Input is the body for creating or updating an event.
type Input struct {
	Title       string   `json:"title" validate:"min=3"`
	Description string   `json:"description" validate:"min=10"`
	Content     string   `json:"content" validate:"min=10"`
	Location    string   `json:"location" validate:"min=3"`
	StartTime   string   `json:"startTime" validate:"required"`
	EndTime     string   `json:"endTime" validate:"required"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,url"`
	Capacity    Capacity `json:"capacity"`
	Published   bool     `json:"published"`
}

// timeLayouts are accepted for start and end times. Values without a zone are UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parsed is a validated Input.
type parsed struct {
	Input
	start, end time.Time
}

// validate checks field rules and returns a Validation error listing every bad field.
func (in Input) validate() (*parsed, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Content = strings.TrimSpace(in.Content)
	in.Location = strings.TrimSpace(in.Location)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	fields := map[string]string{}
	if err := apperr.ValidateStruct(in); err != nil {
		e := err.(*apperr.Error)
		for k, v := range e.Fields {
			fields[k] = v
		}
	}
	p := &parsed{Input: in}
	var okStart, okEnd bool
	if _, bad := fields["startTime"]; !bad {
		if p.start, okStart = parseTime(in.StartTime); !okStart {
			fields["startTime"] = "startTime must be a valid date"
		}
	}
	if _, bad := fields["endTime"]; !bad {
		if p.end, okEnd = parseTime(in.EndTime); !okEnd {
			fields["endTime"] = "endTime must be a valid date"
		}
	}
	if okStart && okEnd && p.end.Before(p.start) {
		fields["endTime"] = "endTime must not be before startTime"
	}
	if in.Capacity.Set && in.Capacity.Value < 1 {
		fields["capacity"] = "capacity must be at least 1"
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("validation failed", fields)
	}
	return p, nil
}
