package rates

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	ratesRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/rates"
)

// Service администрирование тарифов площадок: профили и правила
type Service struct {
	rateRepo  RateRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса тарифов
func NewService(rateRepo RateRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		rateRepo:  rateRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// ListProfiles возвращает профили площадки
func (s *Service) ListProfiles(ctx context.Context, scope Scope, requester domain.Requester) ([]*domain.PricingProfile, error) {
	s.logger.Info("ListProfiles: facility=%d place=%d user=%d", scope.FacilityID, scope.PlaceID, requester.ID)

	if _, err := s.checkAccess(ctx, "ListProfiles", scope, requester); err != nil {
		return nil, err
	}

	profiles, err := s.rateRepo.ListProfiles(ctx, scope.PlaceID)
	if err != nil {
		s.logger.Error("ListProfiles: repository error for place=%d: %v", scope.PlaceID, err)
		return nil, fmt.Errorf("%w: ListProfiles - repository error: %v", ErrInternal, err)
	}
	return profiles, nil
}

// CreateProfile создает профиль. Новый профиль по умолчанию снимает флаг с остальных в той же транзакции.
func (s *Service) CreateProfile(ctx context.Context, scope Scope, in ProfileInput, requester domain.Requester) (*domain.PricingProfile, error) {
	s.logger.Info("CreateProfile: facility=%d place=%d user=%d", scope.FacilityID, scope.PlaceID, requester.ID)

	place, err := s.checkAccess(ctx, "CreateProfile", scope, requester)
	if err != nil {
		return nil, err
	}

	if in.BasePrice == nil {
		return nil, invalidProfile("basePrice is required")
	}
	if in.EffectiveFrom == nil {
		return nil, invalidProfile("effectiveFrom is required")
	}

	profile := &domain.PricingProfile{PlaceID: place.ID}
	applyProfileInput(profile, in)
	if err := normalizeProfile(profile, placeTimezone(place)); err != nil {
		s.logger.Warn("CreateProfile: invalid profile for place=%d: %v", place.ID, err)
		return nil, err
	}

	var created *domain.PricingProfile
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if profile.IsDefault {
			if err := s.rateRepo.ClearDefaultProfiles(txCtx, place.ID, nil); err != nil {
				return fmt.Errorf("%w: CreateProfile - clear defaults: %v", ErrInternal, err)
			}
		}
		var err error
		created, err = s.rateRepo.CreateProfile(txCtx, profile)
		if err != nil {
			return fmt.Errorf("%w: CreateProfile - create: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("CreateProfile: failed for place=%d: %v", place.ID, err)
		return nil, err
	}

	s.logger.Info("CreateProfile: created profile id=%d for place=%d default=%t", created.ID, place.ID, created.IsDefault)
	return created, nil
}

// UpdateProfile частично обновляет профиль
func (s *Service) UpdateProfile(ctx context.Context, scope Scope, in ProfileInput, requester domain.Requester) (*domain.PricingProfile, error) {
	s.logger.Info("UpdateProfile: profile=%d place=%d user=%d", scope.ProfileID, scope.PlaceID, requester.ID)

	place, err := s.checkAccess(ctx, "UpdateProfile", scope, requester)
	if err != nil {
		return nil, err
	}

	profile, err := s.getProfile(ctx, "UpdateProfile", scope)
	if err != nil {
		return nil, err
	}

	applyProfileInput(profile, in)
	if err := normalizeProfile(profile, placeTimezone(place)); err != nil {
		s.logger.Warn("UpdateProfile: invalid profile id=%d: %v", profile.ID, err)
		return nil, err
	}

	var updated *domain.PricingProfile
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if profile.IsDefault {
			if err := s.rateRepo.ClearDefaultProfiles(txCtx, place.ID, &profile.ID); err != nil {
				return fmt.Errorf("%w: UpdateProfile - clear defaults: %v", ErrInternal, err)
			}
		}
		var err error
		updated, err = s.rateRepo.UpdateProfile(txCtx, profile)
		if err != nil {
			if errors.Is(err, ratesRepo.ErrProfileNotFound) {
				return ErrProfileNotFound
			}
			return fmt.Errorf("%w: UpdateProfile - update: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("UpdateProfile: failed for profile id=%d: %v", profile.ID, err)
		return nil, err
	}

	s.logger.Info("UpdateProfile: updated profile id=%d", updated.ID)
	return updated, nil
}

// DeleteProfile мягко удаляет профиль вместе с его правилами
func (s *Service) DeleteProfile(ctx context.Context, scope Scope, requester domain.Requester) error {
	s.logger.Info("DeleteProfile: profile=%d place=%d user=%d", scope.ProfileID, scope.PlaceID, requester.ID)

	if _, err := s.checkAccess(ctx, "DeleteProfile", scope, requester); err != nil {
		return err
	}
	if _, err := s.getProfile(ctx, "DeleteProfile", scope); err != nil {
		return err
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.rateRepo.SoftDeleteProfile(txCtx, scope.ProfileID); err != nil {
			if errors.Is(err, ratesRepo.ErrProfileNotFound) {
				return ErrProfileNotFound
			}
			return fmt.Errorf("%w: DeleteProfile - delete profile: %v", ErrInternal, err)
		}
		if err := s.rateRepo.SoftDeleteRulesByProfile(txCtx, scope.ProfileID); err != nil {
			return fmt.Errorf("%w: DeleteProfile - delete rules: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("DeleteProfile: failed for profile id=%d: %v", scope.ProfileID, err)
		return err
	}

	s.logger.Info("DeleteProfile: deleted profile id=%d", scope.ProfileID)
	return nil
}

// ListRules возвращает правила профиля (включая выключенные) в порядке (priority, id)
func (s *Service) ListRules(ctx context.Context, scope Scope, requester domain.Requester) ([]*domain.PriceRule, error) {
	s.logger.Info("ListRules: profile=%d place=%d user=%d", scope.ProfileID, scope.PlaceID, requester.ID)

	if _, err := s.checkAccess(ctx, "ListRules", scope, requester); err != nil {
		return nil, err
	}
	if _, err := s.getProfile(ctx, "ListRules", scope); err != nil {
		return nil, err
	}

	rules, err := s.rateRepo.ListRules(ctx, []int64{scope.ProfileID}, false)
	if err != nil {
		s.logger.Error("ListRules: repository error for profile=%d: %v", scope.ProfileID, err)
		return nil, fmt.Errorf("%w: ListRules - repository error: %v", ErrInternal, err)
	}
	return rules, nil
}

// CreateRule создает правило профиля
func (s *Service) CreateRule(ctx context.Context, scope Scope, in RuleInput, requester domain.Requester) (*domain.PriceRule, error) {
	s.logger.Info("CreateRule: profile=%d place=%d user=%d", scope.ProfileID, scope.PlaceID, requester.ID)

	if _, err := s.checkAccess(ctx, "CreateRule", scope, requester); err != nil {
		return nil, err
	}
	profile, err := s.getProfile(ctx, "CreateRule", scope)
	if err != nil {
		return nil, err
	}

	if in.OverrideValue == nil {
		return nil, invalidRule("overrideValue is required")
	}

	rule := &domain.PriceRule{
		PricingProfileID: profile.ID,
		Priority:         domain.DefaultRulePriority,
		IsActive:         true,
	}
	applyRuleInput(rule, in)
	if err := normalizeRule(rule, profile); err != nil {
		s.logger.Warn("CreateRule: invalid rule for profile=%d: %v", profile.ID, err)
		return nil, err
	}

	created, err := s.rateRepo.CreateRule(ctx, rule)
	if err != nil {
		s.logger.Error("CreateRule: repository error for profile=%d: %v", profile.ID, err)
		return nil, fmt.Errorf("%w: CreateRule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateRule: created rule id=%d for profile=%d", created.ID, profile.ID)
	return created, nil
}

// UpdateRule частично обновляет правило; проверяется результат слияния
func (s *Service) UpdateRule(ctx context.Context, scope Scope, ruleID int64, in RuleInput, requester domain.Requester) (*domain.PriceRule, error) {
	s.logger.Info("UpdateRule: rule=%d profile=%d user=%d", ruleID, scope.ProfileID, requester.ID)

	if _, err := s.checkAccess(ctx, "UpdateRule", scope, requester); err != nil {
		return nil, err
	}
	profile, err := s.getProfile(ctx, "UpdateRule", scope)
	if err != nil {
		return nil, err
	}
	rule, err := s.getRule(ctx, "UpdateRule", profile.ID, ruleID)
	if err != nil {
		return nil, err
	}

	applyRuleInput(rule, in)
	if err := normalizeRule(rule, profile); err != nil {
		s.logger.Warn("UpdateRule: invalid rule id=%d: %v", ruleID, err)
		return nil, err
	}

	updated, err := s.rateRepo.UpdateRule(ctx, rule)
	if err != nil {
		if errors.Is(err, ratesRepo.ErrRuleNotFound) {
			return nil, ErrRuleNotFound
		}
		s.logger.Error("UpdateRule: repository error for rule id=%d: %v", ruleID, err)
		return nil, fmt.Errorf("%w: UpdateRule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateRule: updated rule id=%d", ruleID)
	return updated, nil
}

// DeleteRule мягко удаляет правило
func (s *Service) DeleteRule(ctx context.Context, scope Scope, ruleID int64, requester domain.Requester) error {
	s.logger.Info("DeleteRule: rule=%d profile=%d user=%d", ruleID, scope.ProfileID, requester.ID)

	if _, err := s.checkAccess(ctx, "DeleteRule", scope, requester); err != nil {
		return err
	}
	if _, err := s.getProfile(ctx, "DeleteRule", scope); err != nil {
		return err
	}
	if _, err := s.getRule(ctx, "DeleteRule", scope.ProfileID, ruleID); err != nil {
		return err
	}

	if err := s.rateRepo.SoftDeleteRule(ctx, ruleID); err != nil {
		if errors.Is(err, ratesRepo.ErrRuleNotFound) {
			return ErrRuleNotFound
		}
		s.logger.Error("DeleteRule: repository error for rule id=%d: %v", ruleID, err)
		return fmt.Errorf("%w: DeleteRule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteRule: deleted rule id=%d", ruleID)
	return nil
}

// checkAccess проверяет площадку, её принадлежность объекту и права пользователя
func (s *Service) checkAccess(ctx context.Context, op string, scope Scope, requester domain.Requester) (*domain.Place, error) {
	place, err := s.rateRepo.GetPlace(ctx, scope.PlaceID)
	if err != nil {
		if errors.Is(err, ratesRepo.ErrPlaceNotFound) {
			s.logger.Warn("%s: place id=%d not found", op, scope.PlaceID)
			return nil, ErrPlaceNotFound
		}
		s.logger.Error("%s: failed to get place id=%d: %v", op, scope.PlaceID, err)
		return nil, fmt.Errorf("%w: %s - get place: %v", ErrInternal, op, err)
	}

	if place.IsDeleted() || place.FacilityID != scope.FacilityID {
		s.logger.Warn("%s: place id=%d is deleted or not in facility=%d", op, scope.PlaceID, scope.FacilityID)
		return nil, ErrPlaceNotFound
	}

	if !requester.CanManageFacility(place.FacilityID) {
		s.logger.Warn("%s: access denied for user=%d to facility=%d", op, requester.ID, place.FacilityID)
		return nil, ErrAccessDenied
	}

	return place, nil
}

func (s *Service) getProfile(ctx context.Context, op string, scope Scope) (*domain.PricingProfile, error) {
	profile, err := s.rateRepo.GetProfile(ctx, scope.ProfileID)
	if err != nil {
		if errors.Is(err, ratesRepo.ErrProfileNotFound) {
			s.logger.Warn("%s: profile id=%d not found", op, scope.ProfileID)
			return nil, ErrProfileNotFound
		}
		s.logger.Error("%s: failed to get profile id=%d: %v", op, scope.ProfileID, err)
		return nil, fmt.Errorf("%w: %s - get profile: %v", ErrInternal, op, err)
	}
	if profile.PlaceID != scope.PlaceID {
		s.logger.Warn("%s: profile id=%d belongs to place=%d", op, profile.ID, profile.PlaceID)
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func (s *Service) getRule(ctx context.Context, op string, profileID, ruleID int64) (*domain.PriceRule, error) {
	rule, err := s.rateRepo.GetRule(ctx, ruleID)
	if err != nil {
		if errors.Is(err, ratesRepo.ErrRuleNotFound) {
			s.logger.Warn("%s: rule id=%d not found", op, ruleID)
			return nil, ErrRuleNotFound
		}
		s.logger.Error("%s: failed to get rule id=%d: %v", op, ruleID, err)
		return nil, fmt.Errorf("%w: %s - get rule: %v", ErrInternal, op, err)
	}
	if rule.PricingProfileID != profileID {
		s.logger.Warn("%s: rule id=%d belongs to profile=%d", op, rule.ID, rule.PricingProfileID)
		return nil, ErrRuleNotFound
	}
	return rule, nil
}

func placeTimezone(place *domain.Place) string {
	if place.Timezone != nil && *place.Timezone != "" {
		return *place.Timezone
	}
	return domain.DefaultTimezone
}
