package schedule

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidWindow = errors.New("invalid booking window")

const (
	MinDuration    = time.Hour
	MaxDuration    = 30 * 24 * time.Hour
	AdvanceHorizon = 90 * 24 * time.Hour
)

// ValidateWindow checks the temporal rules for a booking window against
// the injected now. Rules are evaluated in order and the first violated
// one is reported, wrapped in ErrInvalidWindow.
func ValidateWindow(start, end, now time.Time) error {
	switch {
	case !start.After(now):
		return fmt.Errorf("%w: start must be in the future", ErrInvalidWindow)
	case !end.After(start):
		return fmt.Errorf("%w: end must be after start", ErrInvalidWindow)
	case end.Sub(start) < MinDuration:
		return fmt.Errorf("%w: minimum booking duration is 1 hour", ErrInvalidWindow)
	case end.Sub(start) > MaxDuration:
		return fmt.Errorf("%w: maximum booking duration is 30 days", ErrInvalidWindow)
	case start.After(now.Add(AdvanceHorizon)):
		return fmt.Errorf("%w: cannot book more than 90 days in advance", ErrInvalidWindow)
	}
	return nil
}
