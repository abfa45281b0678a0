package update_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability/models"
)

const (
	msgInvalidSalonID     = "некорректный ID салона"
	msgInvalidStylistID   = "некорректный ID мастера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные окна доступности"
	msgStylistNotFound    = "мастер не найден"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/salons/{salonId}/stylists/{stylistId}/availability
// Тело заменяет все окна мастера, пустой список снимает ограничения
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	salonID, err := handlers.PathInt64(r, "salonId")
	if err != nil {
		h.logger.Warn("PUT /salons/{id}/stylists/{id}/availability - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	stylistID, err := handlers.PathInt64(r, "stylistId")
	if err != nil {
		h.logger.Warn("PUT /salons/{id}/stylists/{id}/availability - Invalid stylist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStylistID)
		return
	}

	var req models.ReplaceWindowsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /salons/{id}/stylists/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Replace(r.Context(), salonID, stylistID, &req)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("PUT /salons/{id}/stylists/{id}/availability - Invalid data: stylist_id=%d, error=%v", stylistID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, availability.ErrStylistNotFound):
			h.logger.Warn("PUT /salons/{id}/stylists/{id}/availability - Stylist not found: salon_id=%d, stylist_id=%d",
				salonID, stylistID)
			handlers.RespondNotFound(w, msgStylistNotFound)

		default:
			h.logger.Error("PUT /salons/{id}/stylists/{id}/availability - Failed to replace windows: stylist_id=%d, error=%v",
				stylistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /salons/{id}/stylists/{id}/availability - Availability replaced: stylist_id=%d, windows=%d",
		stylistID, len(result.Windows))
	handlers.RespondJSON(w, http.StatusOK, result)
}
