package scheduling

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Calculator вычисляет кандидатные слоты мастера на дату
type Calculator struct {
	grid       *Grid
	slotLength int
}

// NewCalculator создаёт калькулятор поверх сетки
func NewCalculator(grid *Grid) *Calculator {
	return &Calculator{
		grid:       grid,
		slotLength: domain.SlotStepMinutes,
	}
}

// Grid возвращает сетку калькулятора
func (c *Calculator) Grid() *Grid {
	return c.grid
}

// WindowsForDate возвращает окна мастера, относящиеся ко дню недели даты
func (c *Calculator) WindowsForDate(windows []*domain.AvailabilityWindow, date time.Time) []*domain.AvailabilityWindow {
	day := types.ToSchemaWeekday(date.Weekday())

	result := make([]*domain.AvailabilityWindow, 0, len(windows))
	for _, w := range windows {
		if w.DayOfWeek == day {
			result = append(result, w)
		}
	}
	return result
}

// CandidateSlots возвращает слоты сетки, в которые мастер в принципе может начать запись.
//
// Правила:
//   - любой мастер: вся сетка
//   - у мастера нет ни одного окна: вся сетка (открытая политика)
//   - окна есть, но не в этот день недели: пусто
//   - иначе слот подходит, если [start, start+30) целиком лежит хотя бы в одном окне
func (c *Calculator) CandidateSlots(windows []*domain.AvailabilityWindow, date time.Time, anyStylist bool) []GridSlot {
	if anyStylist || len(windows) == 0 {
		return c.grid.Slots()
	}

	dayWindows := c.WindowsForDate(windows, date)
	if len(dayWindows) == 0 {
		return []GridSlot{}
	}

	type bounds struct{ start, end int }
	parsed := make([]bounds, 0, len(dayWindows))
	for _, w := range dayWindows {
		start, end, err := w.Bounds()
		if err != nil || start >= end {
			continue
		}
		parsed = append(parsed, bounds{start: start, end: end})
	}

	result := make([]GridSlot, 0, c.grid.Len())
	for _, slot := range c.grid.slots {
		for _, b := range parsed {
			if slot.Minutes >= b.start && slot.Minutes+c.slotLength <= b.end {
				result = append(result, slot)
				break
			}
		}
	}

	return result
}

// Allows проверяет, что время начала совпадает с одним из кандидатных слотов
func (c *Calculator) Allows(windows []*domain.AvailabilityWindow, date time.Time, startMinutes int) bool {
	for _, slot := range c.CandidateSlots(windows, date, false) {
		if slot.Minutes == startMinutes {
			return true
		}
	}
	return false
}
