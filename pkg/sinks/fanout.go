package sinks

import (
	"context"
	"errors"
	"fmt"
)

// Fanout dispatches outcomes to all configured sinks.
type Fanout struct {
	sinks []Sink
}

// NewFanout builds a dispatcher over the non-nil sinks.
func NewFanout(sinks []Sink) *Fanout {
	cp := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			cp = append(cp, s)
		}
	}
	return &Fanout{sinks: cp}
}

// Deliver forwards the outcome to every sink and returns how many accepted it.
// A failing sink does not stop delivery to the others.
func (f *Fanout) Deliver(ctx context.Context, o Outcome) (int, error) {
	if f == nil || len(f.sinks) == 0 {
		return 0, nil
	}

	var errs []error
	delivered := 0
	for _, s := range f.sinks {
		if err := s.Deliver(ctx, o); err != nil {
			errs = append(errs, fmt.Errorf("%s sink[%s]: %w", s.Type(), s.ID(), err))
			continue
		}
		delivered++
	}
	return delivered, errors.Join(errs...)
}

// Size returns the number of active sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.sinks)
}

// Close releases every sink.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, s := range f.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close sink[%s]: %w", s.ID(), err))
		}
	}
	return errors.Join(errs...)
}
