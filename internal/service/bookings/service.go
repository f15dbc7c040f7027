package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-FacilityBooking/internal/integrations/events"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/bookings/models"
)

// Service контроллер жизненного цикла бронирования
type Service struct {
	bookingRepo  BookingRepository
	lines        LineManager
	statuses     *domain.StatusTable
	policy       domain.StatusPolicy
	txManager    TransactionManager
	events       EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	lines LineManager,
	statuses *domain.StatusTable,
	policy domain.StatusPolicy,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		lines:        lines,
		statuses:     statuses,
		policy:       policy,
		txManager:    txManager,
		events:       publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID.
// Видеть бронирование могут админ, владелец и сотрудники объектов его строк.
func (s *Service) GetByID(ctx context.Context, id int64, requester domain.Requester) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, requester.ID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.lines.Authorize(ctx, booking, requester); err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя.
// Чужую историю видит только админ. Опционально фильтрует по коду статуса.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest, requester domain.Requester) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v by user=%d", req.UserID, req.Status, requester.ID)

	if req.UserID != requester.ID && !requester.IsAdmin {
		s.logger.Warn("GetUserBookings: access denied for user=%d to bookings of user=%d", requester.ID, req.UserID)
		return nil, ErrAccessDenied
	}

	var statusID *int64
	if req.Status != nil {
		id, ok := s.statuses.ID(domain.BookingStatus(*req.Status))
		if !ok {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, ErrUnknownStatus
		}
		statusID = &id
	}

	bookings, err := s.bookingRepo.ListByUser(ctx, req.UserID, statusID)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetFacilityBookings получает бронирования со строками на площадках объекта.
// Доступно админу и сотрудникам объекта.
func (s *Service) GetFacilityBookings(ctx context.Context, req *models.GetFacilityBookingsRequest, requester domain.Requester) (*models.BookingListResponse, error) {
	s.logger.Info("GetFacilityBookings: fetching bookings for facility=%d by user=%d", req.FacilityID, requester.ID)

	if !requester.CanManageFacility(req.FacilityID) {
		s.logger.Warn("GetFacilityBookings: access denied for user=%d to facility=%d", requester.ID, req.FacilityID)
		return nil, ErrFacilityAccessDenied
	}

	if req.From != nil && req.To != nil && !req.To.After(*req.From) {
		return nil, ErrInvalidPeriod
	}

	filter := domain.FacilityBookingsFilter{
		FacilityID: req.FacilityID,
		PlaceID:    req.PlaceID,
		From:       req.From,
		To:         req.To,
	}
	if req.Status != nil {
		id, ok := s.statuses.ID(domain.BookingStatus(*req.Status))
		if !ok {
			s.logger.Warn("GetFacilityBookings: invalid status=%s for facility=%d", *req.Status, req.FacilityID)
			return nil, ErrUnknownStatus
		}
		filter.StatusID = &id
	}

	bookings, err := s.bookingRepo.ListByFacility(ctx, filter)
	if err != nil {
		s.logger.Error("GetFacilityBookings: repository error for facility=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: GetFacilityBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetFacilityBookings: successfully fetched %d bookings for facility=%d", len(bookings), req.FacilityID)
	return models.FromDomainBookingList(bookings), nil
}

// InitiatePayment переводит бронирование в pending_payment и продлевает удержание
func (s *Service) InitiatePayment(ctx context.Context, bookingID int64, requester domain.Requester) (*models.TransitionResponse, error) {
	return s.transition(ctx, "InitiatePayment", bookingID, requester, events.TypePaymentInitiated,
		func(txCtx context.Context, b *domain.Booking, now time.Time) (domain.Totals, error) {
			if err := s.requireLines(txCtx, "InitiatePayment", b.ID, ErrEmptyPayment); err != nil {
				return domain.Totals{}, err
			}

			totals, err := s.lines.Reprice(txCtx, b.ID)
			if err != nil {
				return domain.Totals{}, err
			}

			if err := s.setStatus(b, domain.StatusPendingPayment); err != nil {
				return domain.Totals{}, err
			}
			holdUntil := now.Add(domain.PaymentHoldExtension)
			if b.HoldExpiresAt != nil && b.HoldExpiresAt.After(holdUntil) {
				holdUntil = *b.HoldExpiresAt
			}
			b.HoldExpiresAt = &holdUntil
			b.PaymentReference = nil
			b.PaymentFailureReason = nil
			b.PaidAt = nil
			return totals, nil
		})
}

// MarkPaymentSuccessful подтверждает бронирование после успешной оплаты
func (s *Service) MarkPaymentSuccessful(ctx context.Context, bookingID int64, req *models.PaymentSuccessRequest, requester domain.Requester) (*models.TransitionResponse, error) {
	return s.transition(ctx, "MarkPaymentSuccessful", bookingID, requester, events.TypeConfirmed,
		func(txCtx context.Context, b *domain.Booking, now time.Time) (domain.Totals, error) {
			totals, err := s.lines.Reprice(txCtx, b.ID)
			if err != nil {
				return domain.Totals{}, err
			}

			if err := s.setStatus(b, domain.StatusConfirmed); err != nil {
				return domain.Totals{}, err
			}
			b.HoldExpiresAt = nil
			if req != nil && req.PaymentReference != nil {
				b.PaymentReference = req.PaymentReference
			}
			b.PaymentFailureReason = nil
			b.PaidAt = &now
			return totals, nil
		})
}

// MarkPaymentFailed фиксирует неуспешную оплату
func (s *Service) MarkPaymentFailed(ctx context.Context, bookingID int64, req *models.PaymentFailureRequest, requester domain.Requester) (*models.TransitionResponse, error) {
	return s.transition(ctx, "MarkPaymentFailed", bookingID, requester, events.TypePaymentFailed,
		func(txCtx context.Context, b *domain.Booking, _ time.Time) (domain.Totals, error) {
			totals, err := s.lines.Reprice(txCtx, b.ID)
			if err != nil {
				return domain.Totals{}, err
			}

			if err := s.setStatus(b, domain.StatusPaymentFailed); err != nil {
				return domain.Totals{}, err
			}
			b.PaymentFailureReason = nil
			if req != nil {
				if req.PaymentReference != nil {
					b.PaymentReference = req.PaymentReference
				}
				b.PaymentFailureReason = req.Reason
			}
			b.PaidAt = nil
			return totals, nil
		})
}

// Confirm подтверждает бронирование без оплаты
func (s *Service) Confirm(ctx context.Context, bookingID int64, requester domain.Requester) (*models.TransitionResponse, error) {
	return s.transition(ctx, "Confirm", bookingID, requester, events.TypeConfirmed,
		func(txCtx context.Context, b *domain.Booking, now time.Time) (domain.Totals, error) {
			if err := s.requireLines(txCtx, "Confirm", b.ID, ErrEmptyConfirm); err != nil {
				return domain.Totals{}, err
			}

			if err := s.setStatus(b, domain.StatusConfirmed); err != nil {
				return domain.Totals{}, err
			}
			b.HoldExpiresAt = nil
			if b.PaidAt == nil {
				b.PaidAt = &now
			}
			return s.lines.Reprice(txCtx, b.ID)
		})
}

// Cancel отменяет бронирование.
// Без статуса cancelled в справочнике работает запасной вариант из политики.
func (s *Service) Cancel(ctx context.Context, bookingID int64, requester domain.Requester) (*models.TransitionResponse, error) {
	return s.transition(ctx, "Cancel", bookingID, requester, events.TypeCancelled,
		func(txCtx context.Context, b *domain.Booking, _ time.Time) (domain.Totals, error) {
			if id, ok := s.statuses.ID(s.policy.Cancelled); ok {
				b.StatusID = id
				b.Status = s.policy.Cancelled
				b.HoldExpiresAt = nil
				b.PaidAt = nil
			} else {
				switch s.policy.CancelFallback {
				case domain.CancelFallbackExpireHold:
					s.logger.Warn("Cancel: status %q is missing, expiring hold of booking id=%d", s.policy.Cancelled, b.ID)
					expired := time.Unix(0, 0).UTC()
					b.HoldExpiresAt = &expired
					b.PaidAt = nil
				default:
					s.logger.Warn("Cancel: status %q is missing and fallback is %q", s.policy.Cancelled, s.policy.CancelFallback)
					return domain.Totals{}, domain.WithMessage(ErrCannotCancel,
						fmt.Sprintf("Missing booking status %q", s.policy.Cancelled))
				}
			}
			return s.lines.Reprice(txCtx, b.ID)
		})
}

// Reprice пересчитывает итог бронирования; права те же, что у изменения строк
func (s *Service) Reprice(ctx context.Context, bookingID int64, requester domain.Requester) (*models.TotalsResponse, error) {
	s.logger.Info("Reprice: repricing booking id=%d by user=%d", bookingID, requester.ID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Reprice: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Reprice: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Reprice - repository error: %v", ErrInternal, err)
	}

	if err := s.lines.Authorize(ctx, booking, requester); err != nil {
		return nil, err
	}

	totals, err := s.lines.Reprice(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	resp := models.FromDomainTotals(totals)
	return &resp, nil
}

type mutation func(txCtx context.Context, b *domain.Booking, now time.Time) (domain.Totals, error)

// transition выполняет переход под блокировкой строки бронирования и публикует событие после коммита
func (s *Service) transition(
	ctx context.Context,
	op string,
	bookingID int64,
	requester domain.Requester,
	eventType string,
	mutate mutation,
) (*models.TransitionResponse, error) {
	s.logger.Info("%s: booking id=%d by user=%d", op, bookingID, requester.ID)

	now := s.timeProvider.Now()
	var result domain.TransitionResult

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Блокируем бронирование
		booking, err := s.bookingRepo.GetByIDForUpdate(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("%s: booking id=%d not found", op, bookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
			return fmt.Errorf("%w: %s - get booking: %v", ErrInternal, op, err)
		}

		// 2. Права доступа
		if err := s.lines.Authorize(txCtx, booking, requester); err != nil {
			return err
		}

		// 3. Переход
		totals, err := mutate(txCtx, booking, now)
		if err != nil {
			return err
		}
		booking.Total = totals.Total
		booking.Currency = totals.Currency

		// 4. Сохраняем статус и платежные поля
		if err := s.bookingRepo.UpdateLifecycle(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("%s: failed to update booking id=%d: %v", op, bookingID, err)
			return fmt.Errorf("%w: %s - update lifecycle: %v", ErrInternal, op, err)
		}

		result = domain.TransitionResult{Booking: booking, Totals: totals}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ObserveTransition(string(result.Booking.Status))
	}
	s.publish(ctx, op, eventType, result.Booking, now)

	s.logger.Info("%s: booking id=%d is now %s, total=%s", op, bookingID,
		result.Booking.Status, result.Totals.Total.StringFixed(domain.MoneyScale))
	return models.FromDomainTransition(&result), nil
}

func (s *Service) setStatus(b *domain.Booking, code domain.BookingStatus) error {
	id, err := s.statuses.MustID(code)
	if err != nil {
		s.logger.Error("setStatus: %v", err)
		return err
	}
	b.StatusID = id
	b.Status = code
	return nil
}

func (s *Service) requireLines(ctx context.Context, op string, bookingID int64, emptyErr error) error {
	count, err := s.lines.CountActiveLines(ctx, bookingID)
	if err != nil {
		return err
	}
	if count == 0 {
		s.logger.Warn("%s: booking id=%d has no lines", op, bookingID)
		return emptyErr
	}
	return nil
}

// publish отправляет событие; ошибка только логируется
func (s *Service) publish(ctx context.Context, op, eventType string, b *domain.Booking, now time.Time) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, events.NewEvent(eventType, b, now)); err != nil {
		s.logger.Error("%s: failed to publish %s for booking id=%d: %v", op, eventType, b.ID, err)
	}
}
