package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	SalonID   int64     // ID салона
	StylistID *int64    // ID мастера, nil = любой мастер
	ServiceID *int64    // ID услуги, определяет длительность кандидата
	Date      time.Time // Дата (время суток игнорируется)
}

// Response модель ответа со слотами мастера на дату
type Response struct {
	Date            time.Time
	SalonID         int64
	StylistID       *int64
	ServiceID       *int64
	DurationMinutes int // длительность, с которой проверялись слоты

	Availability  []*domain.AvailabilityWindow // окна мастера в этот день недели
	Slots         []domain.Slot
	BookedSlots   []string              // время начала занятых записей как есть в хранилище
	BlockedRanges []domain.BlockedRange // занятые интервалы для проверки на клиенте
}
