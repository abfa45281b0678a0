package confirm_booking

import "github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"

// ConfirmBookingRequest HTTP запрос на подтверждение по ссылке из письма
type ConfirmBookingRequest struct {
	Token string `json:"token"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *ConfirmBookingRequest) ToServiceRequest() *models.TokenRequest {
	return &models.TokenRequest{Token: r.Token}
}
