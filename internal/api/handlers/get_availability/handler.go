package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
)

const (
	msgInvalidSalonID   = "некорректный ID салона"
	msgInvalidStylistID = "некорректный ID мастера"
	msgStylistNotFound  = "мастер не найден"
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

// Handle GET /api/v1/salons/{salonId}/stylists/{stylistId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	salonID, err := handlers.PathInt64(r, "salonId")
	if err != nil {
		h.logger.Warn("GET /salons/{id}/stylists/{id}/availability - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	stylistID, err := handlers.PathInt64(r, "stylistId")
	if err != nil {
		h.logger.Warn("GET /salons/{id}/stylists/{id}/availability - Invalid stylist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStylistID)
		return
	}

	result, err := h.service.Get(r.Context(), salonID, stylistID)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrStylistNotFound):
			h.logger.Warn("GET /salons/{id}/stylists/{id}/availability - Stylist not found: salon_id=%d, stylist_id=%d",
				salonID, stylistID)
			handlers.RespondNotFound(w, msgStylistNotFound)

		default:
			h.logger.Error("GET /salons/{id}/stylists/{id}/availability - Failed to get availability: stylist_id=%d, error=%v",
				stylistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /salons/{id}/stylists/{id}/availability - Availability retrieved: stylist_id=%d, windows=%d",
		stylistID, len(result.Windows))
	handlers.RespondJSON(w, http.StatusOK, result)
}
