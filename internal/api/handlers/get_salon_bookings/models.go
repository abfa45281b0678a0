package get_salon_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// date задает один день, startDate/endDate задают период (включительно).
func ToServiceRequest(salonID int64, query url.Values) (*models.ListSalonBookingsRequest, error) {
	req := &models.ListSalonBookingsRequest{
		SalonID: salonID,
	}

	if v := query.Get("stylistId"); v != "" {
		stylistID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || stylistID <= 0 {
			return nil, fmt.Errorf("invalid stylistId %q", v)
		}
		req.StylistID = &stylistID
	}

	if v := query.Get("status"); v != "" {
		req.Status = &v
	}

	if v := query.Get("date"); v != "" {
		date, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.StartDate = &date
		req.EndDate = &date
	}

	if v := query.Get("startDate"); v != "" {
		start, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate: %w", err)
		}
		req.StartDate = &start
	}

	if v := query.Get("endDate"); v != "" {
		end, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %w", err)
		}
		req.EndDate = &end
	}

	if v := query.Get("includeCancelled"); v != "" {
		includeCancelled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = includeCancelled
	}

	return req, nil
}
