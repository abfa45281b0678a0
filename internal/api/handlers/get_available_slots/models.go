package get_available_slots

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
)

var (
	errInvalidDate      = errors.New("invalid date")
	errInvalidServiceID = errors.New("invalid service id")
)

// AnyStylist значение stylistId для записи к любому мастеру
const AnyStylist = "any"

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string         `json:"date"`
	SalonID         int64          `json:"salonId"`
	StylistID       *int64         `json:"stylistId"` // null = любой мастер
	ServiceID       *int64         `json:"serviceId,omitempty"`
	DurationMinutes int            `json:"durationMinutes"`
	Availability    []Window       `json:"availability"`
	Slots           []Slot         `json:"slots"`
	BookedSlots     []string       `json:"bookedSlots"`
	BlockedRanges   []BlockedRange `json:"blockedRanges"`
}

// Window рабочее окно мастера в выбранный день
type Window struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Slot модель временного слота
type Slot struct {
	Time         string `json:"time"`
	StartMinutes int    `json:"startMinutes"`
	Available    bool   `json:"available"`
}

// BlockedRange занятый интервал
type BlockedRange struct {
	Start        string `json:"start"`
	StartMinutes int    `json:"startMinutes"`
	EndMinutes   int    `json:"endMinutes"`
	Duration     int    `json:"duration"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	windows := make([]Window, 0, len(resp.Availability))
	for _, w := range resp.Availability {
		windows = append(windows, Window{
			DayOfWeek: w.DayOfWeek,
			StartTime: w.StartTime.String(),
			EndTime:   w.EndTime.String(),
		})
	}

	slots := make([]Slot, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = Slot{Time: s.Time, StartMinutes: s.StartMinutes, Available: s.Available}
	}

	blocked := make([]BlockedRange, len(resp.BlockedRanges))
	for i, b := range resp.BlockedRanges {
		blocked[i] = BlockedRange{
			Start:        b.Start,
			StartMinutes: b.StartMinutes,
			EndMinutes:   b.EndMinutes,
			Duration:     b.Duration,
		}
	}

	booked := resp.BookedSlots
	if booked == nil {
		booked = []string{}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		SalonID:         resp.SalonID,
		StylistID:       resp.StylistID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Availability:    windows,
		Slots:           slots,
		BookedSlots:     booked,
		BlockedRanges:   blocked,
	}
}

// ParseStylistID разбирает stylistId из пути: число или "any"
func ParseStylistID(raw string) (*int64, error) {
	if strings.EqualFold(raw, AnyStylist) {
		return nil, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, fmt.Errorf("stylist id must be positive: %d", id)
	}
	return &id, nil
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(salonID int64, stylistID *int64, serviceIDStr, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	req := &getAvailableSlots.Request{
		SalonID:   salonID,
		StylistID: stylistID,
		Date:      date,
	}

	if serviceIDStr != "" {
		serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
		if err != nil || serviceID <= 0 {
			return nil, fmt.Errorf("%w: %q", errInvalidServiceID, serviceIDStr)
		}
		req.ServiceID = &serviceID
	}

	return req, nil
}
