package domain

import (
	"fmt"
	"strings"
	"time"
)

// Severity is the urgency attached to an alert.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
	SeverityInfo     Severity = "INFO"
)

func (s Severity) String() string { return string(s) }

func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

func ParseSeverityFromString(s string) (Severity, error) {
	sev := Severity(strings.ToUpper(strings.TrimSpace(s)))
	if !sev.IsValid() {
		return "", fmt.Errorf("%w: invalid severity %q", ErrValidation, s)
	}
	return sev, nil
}

// AlertContent is the data an alert template is rendered against.
type AlertContent struct {
	Title        string
	Subject      string
	JobName      string
	Status       string
	Type         string
	Severity     Severity
	StartTime    time.Time
	EndTime      time.Time
	Duration     string
	Link         string
	Message      string
	RestartIndex int
	TotalRestart int
}

func (a *AlertContent) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("%w: alert title is required", ErrValidation)
	}
	if a.Severity != "" && !a.Severity.IsValid() {
		return fmt.Errorf("%w: invalid severity %q", ErrValidation, a.Severity)
	}
	if !a.StartTime.IsZero() && !a.EndTime.IsZero() && a.EndTime.Before(a.StartTime) {
		return fmt.Errorf("%w: alert end time is before start time", ErrValidation)
	}
	return nil
}
