package models

import "github.com/m04kA/SMC-SalonBooking/internal/domain"

// SalonResponse публичные данные салона
type SalonResponse struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Slug    string  `json:"slug"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
}

// ServiceResponse услуга салона
type ServiceResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	Price           int64  `json:"price"` // в минимальных единицах валюты
	Currency        string `json:"currency"`
}

// StylistResponse мастер салона
type StylistResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Specialties []string `json:"specialties"`
}

// CatalogResponse всё, что нужно странице записи: салон, услуги и мастера
type CatalogResponse struct {
	Salon    SalonResponse     `json:"salon"`
	Services []ServiceResponse `json:"services"`
	Stylists []StylistResponse `json:"stylists"`
}

// FromDomain собирает ответ каталога.
// Длительность услуги отдаётся уже с учётом значения по умолчанию.
func FromDomain(salon *domain.Salon, services []*domain.Service, stylists []*domain.Stylist) *CatalogResponse {
	resp := &CatalogResponse{
		Salon: SalonResponse{
			ID:      salon.ID,
			Name:    salon.Name,
			Slug:    salon.Slug,
			Phone:   salon.Phone,
			Email:   salon.Email,
			Address: salon.Address,
		},
		Services: make([]ServiceResponse, 0, len(services)),
		Stylists: make([]StylistResponse, 0, len(stylists)),
	}

	for _, s := range services {
		resp.Services = append(resp.Services, ServiceResponse{
			ID:              s.ID,
			Name:            s.Name,
			DurationMinutes: s.EffectiveDuration(),
			Price:           s.Price,
			Currency:        s.Currency,
		})
	}

	for _, s := range stylists {
		specialties := s.Specialties
		if specialties == nil {
			specialties = []string{}
		}
		resp.Stylists = append(resp.Stylists, StylistResponse{
			ID:          s.ID,
			Name:        s.Name,
			Specialties: specialties,
		})
	}

	return resp
}
