package scheduling

import (
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Detector проверяет пересечение новой записи с уже существующими.
// Записи на вход уже отфильтрованы по мастеру и дате.
type Detector struct{}

// NewDetector создаёт детектор конфликтов
func NewDetector() *Detector {
	return &Detector{}
}

// HasConflict возвращает true, если [start, start+duration) пересекается с любой неотменённой записью.
// Нераспознанное время у существующей записи возвращает ErrMalformedBookingTime.
func (d *Detector) HasConflict(startMinutes, durationMinutes int, existing []*domain.Booking) (bool, error) {
	end := startMinutes + durationMinutes

	for _, b := range existing {
		if b.IsCancelled() {
			continue
		}

		bStart, err := types.ToMinutes(b.AppointmentTime)
		if err != nil {
			return false, fmt.Errorf("%w: booking=%d time=%q: %v", ErrMalformedBookingTime, b.ID, b.AppointmentTime, err)
		}

		if types.IntervalsOverlap(startMinutes, end, bStart, bStart+b.EffectiveDuration()) {
			return true, nil
		}
	}

	return false, nil
}

// BlockedRanges возвращает занятые интервалы неотменённых записей.
// Записи с нераспознанным временем возвращаются отдельно, чтобы вызывающий мог их залогировать.
func (d *Detector) BlockedRanges(existing []*domain.Booking) ([]domain.BlockedRange, []*domain.Booking) {
	ranges := make([]domain.BlockedRange, 0, len(existing))
	var malformed []*domain.Booking

	for _, b := range existing {
		if b.IsCancelled() {
			continue
		}

		start, err := types.ToMinutes(b.AppointmentTime)
		if err != nil {
			malformed = append(malformed, b)
			continue
		}

		duration := b.EffectiveDuration()
		ranges = append(ranges, domain.BlockedRange{
			Start:        b.AppointmentTime,
			StartMinutes: start,
			EndMinutes:   start + duration,
			Duration:     duration,
		})
	}

	return ranges, malformed
}

// IsFree проверяет кандидатный интервал против уже посчитанных занятых интервалов
func (d *Detector) IsFree(startMinutes, durationMinutes int, ranges []domain.BlockedRange) bool {
	for _, r := range ranges {
		if r.Overlaps(startMinutes, durationMinutes) {
			return false
		}
	}
	return true
}
