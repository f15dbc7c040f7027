package get_facility_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-FacilityBooking/pkg/ptr"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(facilityID int64, query url.Values) (*models.GetFacilityBookingsRequest, error) {
	req := &models.GetFacilityBookingsRequest{FacilityID: facilityID}

	if raw := query.Get("placeId"); raw != "" {
		placeID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || placeID <= 0 {
			return nil, fmt.Errorf("invalid placeId %q", raw)
		}
		req.PlaceID = ptr.Ptr(placeID)
	}

	if status := query.Get("status"); status != "" {
		req.Status = ptr.Ptr(status)
	}

	from, err := parseTime(query, "from")
	if err != nil {
		return nil, err
	}
	req.From = from

	to, err := parseTime(query, "to")
	if err != nil {
		return nil, err
	}
	req.To = to

	return req, nil
}

func parseTime(query url.Values, name string) (*time.Time, error) {
	raw := query.Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return ptr.Ptr(t), nil
}
