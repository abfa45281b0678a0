package domain

// Default values
const (
	DefaultServiceDurationMinutes = 60
	SlotStepMinutes               = 30
	ConfirmTokenTTLHours          = 48
	MaxReferenceAttempts          = 5
)

// Business validation constants
const (
	MaxNotesLength      = 500
	MaxClientNameLength = 200
	MaxWindowsPerWeek   = 28
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// AllStatuses список допустимых статусов в порядке колонок доски
var AllStatuses = []BookingStatus{
	StatusBacklog,
	StatusForToday,
	StatusInProgress,
	StatusDone,
	StatusCancelled,
}
