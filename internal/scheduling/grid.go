package scheduling

import (
	"fmt"
	"sort"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// DefaultGridLabels стандартная сетка салона: утро и после обеда с шагом 30 минут
var DefaultGridLabels = []string{
	"9:00 AM", "9:30 AM", "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM",
	"1:00 PM", "1:30 PM", "2:00 PM", "2:30 PM", "3:00 PM", "3:30 PM",
	"4:00 PM", "4:30 PM", "5:00 PM", "5:30 PM",
}

// GridSlot один слот канонической сетки
type GridSlot struct {
	Label   string
	Minutes int
}

// Grid каноническая сетка времени начала записи
type Grid struct {
	slots []GridSlot
}

// NewGrid разбирает метки сетки. Метки сортируются по времени, дубли запрещены.
func NewGrid(labels []string) (*Grid, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrInvalidGrid)
	}

	slots := make([]GridSlot, 0, len(labels))
	seen := make(map[int]string, len(labels))
	for _, label := range labels {
		minutes, err := types.ToMinutes(label)
		if err != nil {
			return nil, fmt.Errorf("%w: label %q: %v", ErrInvalidGrid, label, err)
		}
		if prev, ok := seen[minutes]; ok {
			return nil, fmt.Errorf("%w: labels %q and %q denote the same time", ErrInvalidGrid, prev, label)
		}
		seen[minutes] = label
		slots = append(slots, GridSlot{Label: label, Minutes: minutes})
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Minutes < slots[j].Minutes
	})

	return &Grid{slots: slots}, nil
}

// MustDefaultGrid возвращает стандартную сетку
func MustDefaultGrid() *Grid {
	g, err := NewGrid(DefaultGridLabels)
	if err != nil {
		panic(err)
	}
	return g
}

// Slots возвращает копию слотов сетки
func (g *Grid) Slots() []GridSlot {
	out := make([]GridSlot, len(g.slots))
	copy(out, g.slots)
	return out
}

// Len количество слотов
func (g *Grid) Len() int {
	return len(g.slots)
}
