package models

import (
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// WindowRequest одно недельное окно мастера
type WindowRequest struct {
	DayOfWeek int    `json:"dayOfWeek" validate:"schema_weekday"` // 0 = понедельник ... 6 = воскресенье
	StartTime string `json:"startTime" validate:"required,clock"`
	EndTime   string `json:"endTime" validate:"required,clock"`
}

// ReplaceWindowsRequest полный набор окон мастера, заменяет существующий
type ReplaceWindowsRequest struct {
	Windows []WindowRequest `json:"windows" validate:"max=28,dive"`
}

// WindowResponse окно доступности
type WindowResponse struct {
	ID        int64  `json:"id"`
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// WindowsResponse окна мастера
type WindowsResponse struct {
	StylistID int64            `json:"stylistId"`
	Windows   []WindowResponse `json:"windows"`
}

// ToDomainWindow конвертирует окно в domain модель с нормализованным временем
func (w WindowRequest) ToDomainWindow(stylistID int64) (*domain.AvailabilityWindow, error) {
	start, err := types.NewTimeStringFromString(w.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := types.NewTimeStringFromString(w.EndTime)
	if err != nil {
		return nil, err
	}

	return &domain.AvailabilityWindow{
		StylistID: stylistID,
		DayOfWeek: w.DayOfWeek,
		StartTime: start,
		EndTime:   end,
	}, nil
}

// FromDomainWindows конвертирует список окон в DTO
func FromDomainWindows(stylistID int64, windows []*domain.AvailabilityWindow) *WindowsResponse {
	resp := &WindowsResponse{
		StylistID: stylistID,
		Windows:   make([]WindowResponse, 0, len(windows)),
	}

	for _, w := range windows {
		resp.Windows = append(resp.Windows, WindowResponse{
			ID:        w.ID,
			DayOfWeek: w.DayOfWeek,
			StartTime: w.StartTime.String(),
			EndTime:   w.EndTime.String(),
		})
	}

	return resp
}
