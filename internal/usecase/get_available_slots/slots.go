package get_available_slots

import (
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
)

// buildSlots помечает кандидатные слоты свободными, если [start, start+duration)
// не пересекается ни с одним занятым интервалом.
// Слот 10:00 при записи 9:00-10:00 свободен: касание границей не является пересечением.
func buildSlots(candidates []scheduling.GridSlot, duration int, ranges []domain.BlockedRange, detector *scheduling.Detector) []domain.Slot {
	result := make([]domain.Slot, 0, len(candidates))

	for _, c := range candidates {
		result = append(result, domain.Slot{
			Time:         c.Label,
			StartMinutes: c.Minutes,
			Available:    detector.IsFree(c.Minutes, duration, ranges),
		})
	}

	return result
}

// bookedStartTimes возвращает время начала неотменённых записей в исходном виде
func bookedStartTimes(bookings []*domain.Booking) []string {
	result := make([]string, 0, len(bookings))
	for _, b := range bookings {
		if b.IsCancelled() {
			continue
		}
		result = append(result, b.AppointmentTime)
	}
	return result
}
