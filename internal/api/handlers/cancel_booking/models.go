package cancel_booking

import "github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"

// CancelBookingRequest HTTP запрос на отмену по ссылке из письма
type CancelBookingRequest struct {
	Token string `json:"token"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest() *models.TokenRequest {
	return &models.TokenRequest{Token: r.Token}
}
