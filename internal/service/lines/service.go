package lines

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/booking"
	ratesRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/rates"
)

// Service менеджер строк бронирования: добавление, удаление, переоценка.
// Все изменения идут в транзакции под блокировкой строки бронирования.
type Service struct {
	bookingRepo BookingRepository
	placeRepo   PlaceRepository
	pricer      Pricer
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса строк
func NewService(
	bookingRepo BookingRepository,
	placeRepo PlaceRepository,
	pricer Pricer,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		placeRepo:   placeRepo,
		pricer:      pricer,
		txManager:   txManager,
		logger:      logger,
	}
}

// AddLine оценивает слот и добавляет строку в бронирование, затем переоценивает его
func (s *Service) AddLine(ctx context.Context, bookingID int64, req AddLineRequest, requester domain.Requester) (*domain.BookingLine, error) {
	s.logger.Info("AddLine: adding place=%d to booking id=%d by user=%d", req.PlaceID, bookingID, requester.ID)

	var created *domain.BookingLine
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Блокируем бронирование
		booking, err := s.lockBooking(txCtx, "AddLine", bookingID)
		if err != nil {
			return err
		}

		// 2. Права: админ, владелец или сотрудник объекта площадки
		place, err := s.getPlace(txCtx, "AddLine", req.PlaceID)
		if err != nil {
			return err
		}
		if !requester.CanMutate(booking, []int64{place.FacilityID}) {
			s.logger.Warn("AddLine: access denied for user=%d to booking id=%d", requester.ID, bookingID)
			return ErrAccessDenied
		}

		// 3. Слот и количество
		slot, err := domain.NewSlot(req.Start, req.End)
		if err != nil {
			s.logger.Warn("AddLine: invalid slot for booking id=%d: %v", bookingID, err)
			return err
		}
		qty := domain.DefaultLineQty
		if req.Qty != nil {
			qty = *req.Qty
		}
		if qty < 1 {
			s.logger.Warn("AddLine: invalid qty=%d for booking id=%d", qty, bookingID)
			return ErrInvalidQty
		}

		// 4. Цена слота
		quote, err := s.pricer.QuoteForSlot(txCtx, place.ID, slot.Start, slot.End)
		if err != nil {
			s.logger.Warn("AddLine: failed to quote place=%d for booking id=%d: %v", place.ID, bookingID, err)
			return err
		}

		// 5. Валюта бронирования
		if err := s.syncCurrency(txCtx, booking, quote.Currency); err != nil {
			return err
		}

		// 6. Сохраняем строку со снимком цены
		created, err = s.bookingRepo.CreateLine(txCtx, &domain.BookingLine{
			BookingID:        bookingID,
			PlaceID:          place.ID,
			TeacherID:        req.TeacherID,
			CourseSessionID:  req.CourseSessionID,
			Slot:             slot,
			Qty:              qty,
			Price:            quote.UnitPrice,
			Currency:         quote.Currency,
			PricingProfileID: quote.PricingProfileID,
			AppliedRuleIDs:   quote.AppliedRuleIDs,
			PricingDetails:   quote.PricingDetails,
		})
		if err != nil {
			var violation *bookingRepo.ConstraintViolationError
			if errors.As(err, &violation) {
				s.logger.Warn("AddLine: constraint violated for booking id=%d: %v", bookingID, violation)
				return domain.WithMessage(ErrConstraintViolation, violation.Message)
			}
			s.logger.Error("AddLine: failed to create line for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: AddLine - create line: %v", ErrInternal, err)
		}

		// 7. Переоценка
		_, err = s.reprice(txCtx, booking)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("AddLine: added line id=%d to booking id=%d price=%s %s",
		created.ID, bookingID, created.Price.StringFixed(domain.MoneyScale), created.Currency)
	return created, nil
}

// RemoveLine мягко удаляет строку и переоценивает бронирование.
// Отсутствующая строка не ошибка: возвращается Removed=false.
func (s *Service) RemoveLine(ctx context.Context, bookingID, lineID int64, requester domain.Requester) (*RemoveLineResult, error) {
	s.logger.Info("RemoveLine: removing line id=%d from booking id=%d by user=%d", lineID, bookingID, requester.ID)

	result := &RemoveLineResult{}
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.lockBooking(txCtx, "RemoveLine", bookingID)
		if err != nil {
			return err
		}

		line, err := s.bookingRepo.GetLine(txCtx, lineID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrLineNotFound) {
				s.logger.Warn("RemoveLine: line id=%d not found", lineID)
				result.Message = LineNotFoundMessage
				return nil
			}
			s.logger.Error("RemoveLine: failed to get line id=%d: %v", lineID, err)
			return fmt.Errorf("%w: RemoveLine - get line: %v", ErrInternal, err)
		}
		if line.BookingID != bookingID || line.IsDeleted() {
			s.logger.Warn("RemoveLine: line id=%d is deleted or belongs to booking id=%d", lineID, line.BookingID)
			result.Message = LineNotFoundMessage
			return nil
		}

		place, err := s.getPlace(txCtx, "RemoveLine", line.PlaceID)
		if err != nil {
			return err
		}
		if !requester.CanMutate(booking, []int64{place.FacilityID}) {
			s.logger.Warn("RemoveLine: access denied for user=%d to booking id=%d", requester.ID, bookingID)
			return ErrAccessDenied
		}

		if err := s.bookingRepo.SoftDeleteLine(txCtx, lineID); err != nil {
			if errors.Is(err, bookingRepo.ErrLineNotFound) {
				result.Message = LineNotFoundMessage
				return nil
			}
			s.logger.Error("RemoveLine: failed to delete line id=%d: %v", lineID, err)
			return fmt.Errorf("%w: RemoveLine - soft delete: %v", ErrInternal, err)
		}

		if _, err := s.reprice(txCtx, booking); err != nil {
			return err
		}
		result.Removed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("RemoveLine: line id=%d removed=%t", lineID, result.Removed)
	return result, nil
}

// ListLines возвращает неудаленные строки бронирования, новые первыми
func (s *Service) ListLines(ctx context.Context, bookingID int64, requester domain.Requester) ([]*domain.BookingLine, error) {
	s.logger.Info("ListLines: fetching lines of booking id=%d for user=%d", bookingID, requester.ID)

	booking, err := s.lockBooking(ctx, "ListLines", bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.Authorize(ctx, booking, requester); err != nil {
		return nil, err
	}

	lines, err := s.bookingRepo.ListLines(ctx, bookingID)
	if err != nil {
		s.logger.Error("ListLines: failed to list lines of booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: ListLines - list lines: %v", ErrInternal, err)
	}

	s.logger.Info("ListLines: booking id=%d has %d lines", bookingID, len(lines))
	return lines, nil
}

// Reprice пересчитывает итог бронирования по неудаленным строкам
func (s *Service) Reprice(ctx context.Context, bookingID int64) (domain.Totals, error) {
	var totals domain.Totals
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.lockBooking(txCtx, "Reprice", bookingID)
		if err != nil {
			return err
		}
		totals, err = s.reprice(txCtx, booking)
		return err
	})
	if err != nil {
		return domain.Totals{}, err
	}
	return totals, nil
}

// CountActiveLines возвращает число неудаленных строк
func (s *Service) CountActiveLines(ctx context.Context, bookingID int64) (int, error) {
	count, err := s.bookingRepo.CountActiveLines(ctx, bookingID)
	if err != nil {
		s.logger.Error("CountActiveLines: failed for booking id=%d: %v", bookingID, err)
		return 0, fmt.Errorf("%w: CountActiveLines - count: %v", ErrInternal, err)
	}
	return count, nil
}

// Authorize проверяет права на бронирование: админ, владелец
// или сотрудник объекта любой из текущих строк
func (s *Service) Authorize(ctx context.Context, booking *domain.Booking, requester domain.Requester) error {
	if requester.IsAdmin || booking.IsOwnedBy(requester.ID) {
		return nil
	}

	facilityIDs, err := s.bookingRepo.ListLineFacilityIDs(ctx, booking.ID)
	if err != nil {
		s.logger.Error("Authorize: failed to list facilities of booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: Authorize - list facilities: %v", ErrInternal, err)
	}

	if !requester.CanMutate(booking, facilityIDs) {
		s.logger.Warn("Authorize: access denied for user=%d to booking id=%d", requester.ID, booking.ID)
		return ErrAccessDenied
	}
	return nil
}

func (s *Service) reprice(ctx context.Context, booking *domain.Booking) (domain.Totals, error) {
	agg, err := s.bookingRepo.AggregateLines(ctx, booking.ID)
	if err != nil {
		s.logger.Error("Reprice: failed to aggregate booking id=%d: %v", booking.ID, err)
		return domain.Totals{}, fmt.Errorf("%w: Reprice - aggregate: %v", ErrInternal, err)
	}

	if agg.CurrencyCount > 1 {
		s.logger.Warn("Reprice: booking id=%d has %d currencies", booking.ID, agg.CurrencyCount)
		return domain.Totals{}, ErrMixedCurrencies
	}

	total := agg.Total.Round(domain.MoneyScale)
	if err := s.bookingRepo.UpdateTotals(ctx, booking.ID, total, agg.Currency); err != nil {
		s.logger.Error("Reprice: failed to update totals of booking id=%d: %v", booking.ID, err)
		return domain.Totals{}, fmt.Errorf("%w: Reprice - update totals: %v", ErrInternal, err)
	}

	booking.Total = total
	if agg.Currency != nil {
		booking.Currency = agg.Currency
	}

	s.logger.Info("Reprice: booking id=%d total=%s", booking.ID, total.StringFixed(domain.MoneyScale))
	return domain.Totals{Total: total, Currency: booking.Currency}, nil
}

// syncCurrency приводит валюту бронирования к валюте новой строки
func (s *Service) syncCurrency(ctx context.Context, booking *domain.Booking, currency string) error {
	if booking.HasCurrency(currency) {
		return nil
	}

	if booking.Currency != nil {
		count, err := s.bookingRepo.CountActiveLines(ctx, booking.ID)
		if err != nil {
			s.logger.Error("AddLine: failed to count lines of booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: AddLine - count lines: %v", ErrInternal, err)
		}
		if count > 0 {
			s.logger.Warn("AddLine: booking id=%d is in %s, line is in %s", booking.ID, *booking.Currency, currency)
			return ErrCurrencyConflict
		}
	}

	currency = strings.ToUpper(currency)
	if err := s.bookingRepo.UpdateCurrency(ctx, booking.ID, currency); err != nil {
		s.logger.Error("AddLine: failed to update currency of booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: AddLine - update currency: %v", ErrInternal, err)
	}
	booking.Currency = &currency
	return nil
}

func (s *Service) lockBooking(ctx context.Context, op string, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByIDForUpdate(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: failed to get booking id=%d: %v", op, bookingID, err)
		return nil, fmt.Errorf("%w: %s - get booking: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) getPlace(ctx context.Context, op string, placeID int64) (*domain.Place, error) {
	place, err := s.placeRepo.GetPlace(ctx, placeID)
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
