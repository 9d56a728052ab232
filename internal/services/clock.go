package services

import (
	"time"

	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/types"
)

// Clock decides the current instant and the calendar day it falls on.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// SystemClock uses wall-clock time in loc (time.Local when nil).
func SystemClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

func (c Clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Today returns the current calendar day.
func (c Clock) Today() types.Date {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return types.DateOf(c.now().In(loc))
}
