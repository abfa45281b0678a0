package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
)

const (
	msgInvalidSalonID      = "некорректный ID салона"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDate         = "некорректный формат даты записи, ожидается YYYY-MM-DD"
	msgInvalidBirthDate    = "некорректный формат даты рождения, ожидается YYYY-MM-DD"
	msgInvalidData         = "некорректные данные бронирования"
	msgSlotNotAvailable    = "выбранное время уже занято"
	msgOutsideAvailability = "мастер не работает в выбранное время"
	msgSalonNotFound       = "салон не найден"
	msgServiceNotFound     = "услуга не найдена"
	msgStylistNotFound     = "мастер не найден"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/salons/{salonId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	salonID, err := handlers.PathInt64(r, "salonId")
	if err != nil {
		h.logger.Warn("POST /salons/{id}/bookings - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /salons/{id}/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(salonID)
	if err != nil {
		h.logger.Warn("POST /salons/{id}/bookings - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidBirthDate) {
			handlers.RespondBadRequest(w, msgInvalidBirthDate)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /salons/{id}/bookings - Slot not available: salon_id=%d, date=%s, time=%q",
				salonID, req.Date, req.Time)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrOutsideAvailability):
			h.logger.Warn("POST /salons/{id}/bookings - Outside availability: salon_id=%d, date=%s, time=%q",
				salonID, req.Date, req.Time)
			handlers.RespondConflict(w, msgOutsideAvailability)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /salons/{id}/bookings - Invalid data: salon_id=%d, error=%v", salonID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, createBooking.ErrSalonNotFound):
			h.logger.Warn("POST /salons/{id}/bookings - Salon not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgSalonNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /salons/{id}/bookings - Service not found: salon_id=%d, service_id=%d", salonID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrStylistNotFound):
			h.logger.Warn("POST /salons/{id}/bookings - Stylist not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgStylistNotFound)

		default:
			h.logger.Error("POST /salons/{id}/bookings - Failed to create booking: salon_id=%d, error=%v", salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /salons/{id}/bookings - Booking created successfully: booking_id=%d, ref=%s",
		result.ID, result.Reference)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
