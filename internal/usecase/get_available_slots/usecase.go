package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	ratesRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/rates"
	"github.com/m04kA/SMC-FacilityBooking/pkg/zoned"
)

// UseCase use case для получения сетки сессий площадки на день
type UseCase struct {
	bookingRepo  BookingRepository
	rateRepo     RateRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	rateRepo RateRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		rateRepo:     rateRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute строит сетку сессий площадки на локальную дату и отмечает занятые
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: place=%d, date=%s", req.PlaceID, req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Площадка
	place, err := uc.rateRepo.GetPlace(ctx, req.PlaceID)
	if err != nil {
		if errors.Is(err, ratesRepo.ErrPlaceNotFound) {
			uc.logger.Warn("GetAvailableSlots: place id=%d not found", req.PlaceID)
			return nil, ErrPlaceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get place id=%d: %v", req.PlaceID, err)
		return nil, fmt.Errorf("%w: failed to get place: %v", ErrInternal, err)
	}
	if place.IsDeleted() {
		uc.logger.Warn("GetAvailableSlots: place id=%d is deleted", req.PlaceID)
		return nil, ErrPlaceNotFound
	}

	// 3. Профиль, действующий на дату, задает длительность сессии и часовой пояс
	profiles, err := uc.rateRepo.ListProfiles(ctx, req.PlaceID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list profiles for place=%d: %v", req.PlaceID, err)
		return nil, fmt.Errorf("%w: failed to list profiles: %v", ErrInternal, err)
	}
	if len(profiles) == 0 {
		uc.logger.Warn("GetAvailableSlots: place=%d has no pricing profiles", req.PlaceID)
		return nil, ErrNoProfiles
	}

	profile, err := selectProfile(profiles, req.Date)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: no active profile for place=%d on %s", req.PlaceID, req.Date)
		return nil, err
	}
	if !profile.HasValidSessionDuration() {
		uc.logger.Warn("GetAvailableSlots: profile=%d has invalid session duration %d",
			profile.ID, profile.SessionDurationMinutes)
		return nil, ErrInvalidSessionDuration
	}

	loc, err := zoned.Location(profile.Timezone)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: profile=%d has invalid timezone %q", profile.ID, profile.Timezone)
		return nil, ErrInvalidTimezone
	}

	// 4. Границы локальных суток (AddDate учитывает переход на летнее время)
	dayStart, err := time.ParseInLocation(zoned.DateLayout, req.Date, loc)
	if err != nil {
		return nil, ErrInvalidDate
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	// 5. Сессии дня, начиная с текущего момента
	session := time.Duration(profile.SessionDurationMinutes) * time.Minute
	sessions := generateSessions(dayStart, dayEnd, session, uc.timeProvider.Now())

	// 6. Занятые слоты
	occupied, err := uc.bookingRepo.ListOccupiedSlots(ctx, req.PlaceID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list occupied slots for place=%d: %v", req.PlaceID, err)
		return nil, fmt.Errorf("%w: failed to list occupied slots: %v", ErrInternal, err)
	}

	slots := markAvailability(sessions, occupied, profile.Timezone)

	uc.logger.Info("GetAvailableSlots: generated %d slots (%d occupied ranges) for place=%d, date=%s",
		len(slots), len(occupied), req.PlaceID, req.Date)

	return &Response{
		PlaceID:                req.PlaceID,
		Date:                   req.Date,
		Timezone:               profile.Timezone,
		PricingProfileID:       profile.ID,
		SessionDurationMinutes: profile.SessionDurationMinutes,
		Slots:                  slots,
	}, nil
}
