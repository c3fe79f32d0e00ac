// Package templates resolves named capture templates into a filter and
// duration, and stores the operator's own templates.
package templates

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultDurationSeconds is used for templates saved without a duration.
const DefaultDurationSeconds = 10

// ErrInvalidDuration is returned when no positive duration can be resolved.
var ErrInvalidDuration = errors.New("duration must be a positive number of seconds")

// CaptureTemplate is a named, reusable filter and duration pair.
type CaptureTemplate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	BPFFilter   string `json:"bpfFilter"`
	Duration    int    `json:"duration"`
}

// EffectiveDuration returns the template duration, or the default when unset.
func (t CaptureTemplate) EffectiveDuration() int {
	if t.Duration <= 0 {
		return DefaultDurationSeconds
	}
	return t.Duration
}

// SaveError reports a template rejected before it reached storage.
type SaveError struct {
	Name   string
	Reason string
}

func (e *SaveError) Error() string {
	if e.Name == "" {
		return "cannot save template: " + e.Reason
	}
	return fmt.Sprintf("cannot save template '%s': %s", e.Name, e.Reason)
}

// Validate checks the fields an operator must fill in.
func Validate(t CaptureTemplate) error {
	if strings.TrimSpace(t.Name) == "" {
		return &SaveError{Reason: "name is required"}
	}
	if strings.TrimSpace(t.BPFFilter) == "" {
		return &SaveError{Name: t.Name, Reason: "BPF filter is required"}
	}
	if t.Duration < 0 {
		return &SaveError{Name: t.Name, Reason: "duration cannot be negative"}
	}
	return nil
}

// Resolved is the effective filter and duration of a capture request.
type Resolved struct {
	Filter   string
	Duration int
}

// Find looks up a template by name, ignoring case.
func Find(name string, templates []CaptureTemplate) (CaptureTemplate, bool) {
	if name == "" {
		return CaptureTemplate{}, false
	}
	for _, t := range templates {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return CaptureTemplate{}, false
}

// Resolve maps the selected template to a filter and duration. An empty or
// unknown selection falls back to the operator-entered values unchanged.
func Resolve(selected string, templates []CaptureTemplate, fallbackFilter string, fallbackDuration int) (Resolved, error) {
	if t, ok := Find(selected, templates); ok {
		return Resolved{Filter: t.BPFFilter, Duration: t.EffectiveDuration()}, nil
	}
	if fallbackDuration <= 0 {
		return Resolved{}, ErrInvalidDuration
	}
	return Resolved{Filter: fallbackFilter, Duration: fallbackDuration}, nil
}
