package scaffold

import (
	"errors"
	"fmt"
)

// Status is the result of one scaffolding step
type Status int

const (
	StatusCreated Status = iota + 1
	StatusSkipped
	StatusFailed
	StatusBound
	StatusAlreadyBound
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	case StatusBound:
		return "bound"
	case StatusAlreadyBound:
		return "already bound"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome records what one step did
type Outcome struct {
	// Step names the step: an artifact kind or "registration"
	Step   string
	Path   string
	Status Status
	Err    error
}

// Report collects the outcomes of one run
type Report struct {
	Name         string
	Artifacts    []Outcome
	Registration Outcome
}

// Outcomes returns every outcome in the order the steps ran
func (r *Report) Outcomes() []Outcome {
	out := make([]Outcome, 0, len(r.Artifacts)+1)
	out = append(out, r.Artifacts...)
	return append(out, r.Registration)
}

// Failed reports whether any step failed
func (r *Report) Failed() bool {
	for _, o := range r.Outcomes() {
		if o.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Err joins the errors of every failed step, nil when none failed
func (r *Report) Err() error {
	var errs []error
	for _, o := range r.Outcomes() {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Step, o.Err))
		}
	}
	return errors.Join(errs...)
}
