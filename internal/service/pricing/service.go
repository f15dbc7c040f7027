package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	ratesRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/rates"
	"github.com/m04kA/SMC-FacilityBooking/pkg/zoned"
)

// Service движок расчета цены слота
type Service struct {
	rateRepo RateRepository
	metrics  Metrics
	logger   Logger
}

// NewService создает новый экземпляр сервиса цен
func NewService(rateRepo RateRepository, metrics Metrics, logger Logger) *Service {
	return &Service{
		rateRepo: rateRepo,
		metrics:  metrics,
		logger:   logger,
	}
}

// QuoteForSlot рассчитывает цену слота [start, end) на площадке.
// Детерминирован: одинаковые входные данные при неизменных тарифах дают одинаковый результат.
func (s *Service) QuoteForSlot(ctx context.Context, placeID int64, start, end time.Time) (*domain.Quote, error) {
	quote, err := s.quote(ctx, placeID, start, end)
	if err != nil {
		s.observe("error")
		return nil, err
	}
	s.observe("ok")
	return quote, nil
}

func (s *Service) quote(ctx context.Context, placeID int64, start, end time.Time) (*domain.Quote, error) {
	// 1. Площадка
	if _, err := s.getPlace(ctx, "QuoteForSlot", placeID); err != nil {
		return nil, err
	}

	// 2. Интервал
	if !end.After(start) {
		s.logger.Warn("QuoteForSlot: invalid range for place=%d start=%s end=%s", placeID, start, end)
		return nil, ErrInvalidTimeRange
	}

	// 3. Профили (по умолчанию первым, затем по убыванию effective_from)
	profiles, err := s.rateRepo.ListProfiles(ctx, placeID)
	if err != nil {
		s.logger.Error("QuoteForSlot: failed to list profiles for place=%d: %v", placeID, err)
		return nil, fmt.Errorf("%w: QuoteForSlot - list profiles: %v", ErrInternal, err)
	}
	if len(profiles) == 0 {
		s.logger.Warn("QuoteForSlot: place=%d has no pricing profiles", placeID)
		return nil, ErrNoProfiles
	}

	// 4. Выбор профиля по локальной дате начала
	profile, err := resolveProfile(profiles, start)
	if err != nil {
		s.logger.Warn("QuoteForSlot: no active profile for place=%d at %s: %v", placeID, start, err)
		return nil, err
	}

	// 5. Длительность сессии
	if !profile.HasValidSessionDuration() {
		s.logger.Warn("QuoteForSlot: profile=%d has invalid session duration %d", profile.ID, profile.SessionDurationMinutes)
		return nil, ErrInvalidSessionDuration
	}

	// 6. Выравнивание по сессиям
	durationMinutes := int(math.Round(domain.Slot{Start: start, End: end}.Duration().Minutes()))
	if durationMinutes <= 0 || durationMinutes%profile.SessionDurationMinutes != 0 {
		s.logger.Warn("QuoteForSlot: slot of %d minutes is not aligned to %d minute sessions (profile=%d)",
			durationMinutes, profile.SessionDurationMinutes, profile.ID)
		return nil, domain.WithMessage(ErrMisalignedSlot,
			fmt.Sprintf("Requested slot must align with %d minute session blocks", profile.SessionDurationMinutes))
	}
	sessionBlocks := durationMinutes / profile.SessionDurationMinutes

	// 7. Локальное время слота
	slot, err := projectSlot(start, end, profile.Timezone)
	if err != nil {
		s.logger.Warn("QuoteForSlot: profile=%d has invalid timezone %q", profile.ID, profile.Timezone)
		return nil, domain.Wrap(ErrInvalidTimezone, err)
	}

	// 8. Календарь на локальную дату начала
	calendar, err := s.rateRepo.GetCalendarDay(ctx, slot.Start.Date)
	if err != nil {
		if !errors.Is(err, ratesRepo.ErrCalendarDayNotFound) {
			s.logger.Error("QuoteForSlot: failed to load calendar for %s: %v", slot.Start.Date, err)
			return nil, fmt.Errorf("%w: QuoteForSlot - load calendar: %v", ErrInternal, err)
		}
		calendar = nil
	}

	// 9. Правила
	rules, err := s.rateRepo.ListRules(ctx, []int64{profile.ID}, true)
	if err != nil {
		s.logger.Error("QuoteForSlot: failed to list rules for profile=%d: %v", profile.ID, err)
		return nil, fmt.Errorf("%w: QuoteForSlot - list rules: %v", ErrInternal, err)
	}

	perSession, applied, err := applyRules(profile, rules, slot, calendar)
	if err != nil {
		s.logger.Warn("QuoteForSlot: rule evaluation failed for profile=%d: %v", profile.ID, err)
		return nil, err
	}

	unitPrice := perSession.Mul(decimal.NewFromInt(int64(sessionBlocks))).Round(domain.MoneyScale)
	if unitPrice.IsNegative() {
		s.logger.Warn("QuoteForSlot: negative price %s for profile=%d", unitPrice, profile.ID)
		return nil, ErrNegativePrice
	}

	ruleIDs := make([]int64, 0, len(applied))
	for _, rule := range applied {
		ruleIDs = append(ruleIDs, rule.ID)
	}

	basePrice := profile.BasePrice.StringFixed(domain.MoneyScale)
	details := domain.PricingDetails{
		ProfileID:              profile.ID,
		ProfileName:            profile.Name,
		BasePricePerSession:    basePrice,
		SessionDurationMinutes: profile.SessionDurationMinutes,
		SessionBlocks:          sessionBlocks,
		Currency:               profile.Currency,
		AppliedRules:           applied,
		Timezone:               profile.Timezone,
		LocalStart:             slot.Start.Local(),
		LocalEnd:               slot.End.Local(),
	}

	s.logger.Info("QuoteForSlot: place=%d profile=%d blocks=%d unit=%s %s rules=%v",
		placeID, profile.ID, sessionBlocks, unitPrice.StringFixed(domain.MoneyScale), profile.Currency, ruleIDs)

	return &domain.Quote{
		PlaceID:                placeID,
		PricingProfileID:       profile.ID,
		SessionDurationMinutes: profile.SessionDurationMinutes,
		SessionBlocks:          sessionBlocks,
		BasePricePerSession:    basePrice,
		UnitPrice:              unitPrice,
		Currency:               profile.Currency,
		AppliedRuleIDs:         ruleIDs,
		AppliedRules:           applied,
		PricingDetails:         details,
		Timezone:               profile.Timezone,
		LocalStart:             details.LocalStart,
		LocalEnd:               details.LocalEnd,
	}, nil
}

// GetRateCard возвращает все профили площадки с их правилами (включая выключенные)
func (s *Service) GetRateCard(ctx context.Context, placeID int64) (*domain.RateCard, error) {
	s.logger.Info("GetRateCard: fetching rate card for place=%d", placeID)

	if _, err := s.getPlace(ctx, "GetRateCard", placeID); err != nil {
		return nil, err
	}

	profiles, err := s.rateRepo.ListProfiles(ctx, placeID)
	if err != nil {
		s.logger.Error("GetRateCard: failed to list profiles for place=%d: %v", placeID, err)
		return nil, fmt.Errorf("%w: GetRateCard - list profiles: %v", ErrInternal, err)
	}
	if len(profiles) == 0 {
		s.logger.Warn("GetRateCard: place=%d has no pricing profiles", placeID)
		return nil, ErrNoProfiles
	}

	ids := make([]int64, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}

	rules, err := s.rateRepo.ListRules(ctx, ids, false)
	if err != nil {
		s.logger.Error("GetRateCard: failed to list rules for place=%d: %v", placeID, err)
		return nil, fmt.Errorf("%w: GetRateCard - list rules: %v", ErrInternal, err)
	}

	byProfile := make(map[int64][]*domain.PriceRule, len(profiles))
	for _, rule := range rules {
		byProfile[rule.PricingProfileID] = append(byProfile[rule.PricingProfileID], rule)
	}

	card := &domain.RateCard{PlaceID: placeID, Profiles: make([]domain.RateCardProfile, 0, len(profiles))}
	for _, p := range profiles {
		profileRules := byProfile[p.ID]
		if profileRules == nil {
			profileRules = []*domain.PriceRule{}
		}
		card.Profiles = append(card.Profiles, domain.RateCardProfile{Profile: p, Rules: profileRules})
	}

	s.logger.Info("GetRateCard: place=%d has %d profiles and %d rules", placeID, len(profiles), len(rules))
	return card, nil
}

func (s *Service) getPlace(ctx context.Context, op string, placeID int64) (*domain.Place, error) {
	place, err := s.rateRepo.GetPlace(ctx, placeID)
	if err != nil {
		if errors.Is(err, ratesRepo.ErrPlaceNotFound) {
			s.logger.Warn("%s: place id=%d not found", op, placeID)
			return nil, ErrPlaceNotFound
		}
		s.logger.Error("%s: failed to get place id=%d: %v", op, placeID, err)
		return nil, fmt.Errorf("%w: %s - get place: %v", ErrInternal, op, err)
	}
	if place.IsDeleted() {
		s.logger.Warn("%s: place id=%d is deleted", op, placeID)
		return nil, ErrPlaceNotFound
	}
	return place, nil
}

func (s *Service) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObserveQuote(result)
	}
}

// resolveProfile выбирает первый профиль, действующий на локальную дату начала
// (в его часовом поясе), иначе первый профиль по умолчанию
func resolveProfile(profiles []*domain.PricingProfile, start time.Time) (*domain.PricingProfile, error) {
	for _, p := range profiles {
		parts, err := zoned.Project(start, p.Timezone)
		if err != nil {
			continue
		}
		if p.CoversDate(parts.Date) {
			return p, nil
		}
	}
	for _, p := range profiles {
		if p.IsDefault {
			return p, nil
		}
	}
	return nil, ErrNoActiveProfile
}

func projectSlot(start, end time.Time, tz string) (localSlot, error) {
	startParts, err := zoned.Project(start, tz)
	if err != nil {
		return localSlot{}, err
	}
	endParts, err := zoned.Project(end, tz)
	if err != nil {
		return localSlot{}, err
	}
	return localSlot{Start: startParts, End: endParts}, nil
}
