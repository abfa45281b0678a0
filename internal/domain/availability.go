package domain

import "github.com/m04kA/SMC-SalonBooking/pkg/types"

// AvailabilityWindow represents a recurring weekly working window of a stylist.
// DayOfWeek uses schema numbering: 0 = Monday ... 6 = Sunday.
type AvailabilityWindow struct {
	ID        int64
	StylistID int64
	DayOfWeek int
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Bounds returns the window as a half-open interval of minutes since midnight
func (w *AvailabilityWindow) Bounds() (start, end int, err error) {
	start, err = types.ToMinutes(string(w.StartTime))
	if err != nil {
		return 0, 0, err
	}
	end, err = types.ToMinutes(string(w.EndTime))
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
