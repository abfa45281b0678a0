package domain

import "github.com/m04kA/SMC-SalonBooking/pkg/types"

// Slot represents a candidate start time in the slot feed
type Slot struct {
	Time         string // метка из сетки, например "9:00 AM"
	StartMinutes int
	Available    bool
}

// BlockedRange represents time occupied by an existing booking
type BlockedRange struct {
	Start        string // время в том виде, как оно сохранено
	StartMinutes int
	EndMinutes   int
	Duration     int
}

// Overlaps returns true if a candidate [start, start+duration) overlaps the range
func (r BlockedRange) Overlaps(start, duration int) bool {
	return types.IntervalsOverlap(start, start+duration, r.StartMinutes, r.EndMinutes)
}
