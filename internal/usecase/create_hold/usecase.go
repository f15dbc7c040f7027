package create_hold

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-FacilityBooking/internal/integrations/events"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/bookings/models"
)

// UseCase use case для создания удержания (hold) бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	lines        LineManager
	statuses     *domain.StatusTable
	policy       domain.StatusPolicy
	txManager    TransactionManager
	events       EventPublisher
	metrics      Metrics
	cfg          Config
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	lines LineManager,
	statuses *domain.StatusTable,
	policy domain.StatusPolicy,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	cfg Config,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		lines:        lines,
		statuses:     statuses,
		policy:       policy,
		txManager:    txManager,
		events:       publisher,
		metrics:      metrics,
		cfg:          cfg,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute создает бронирование в статусе удержания вместе с начальными строками.
// Повтор с тем же ключом идемпотентности возвращает уже созданное бронирование.
func (uc *UseCase) Execute(ctx context.Context, req *Request, requester domain.Requester) (*Response, error) {
	uc.logger.Info("CreateHold: user=%d, lines=%d", requester.ID, len(req.Lines))

	// 1. Валидация входных данных
	params, err := validateRequest(req, requester, uc.cfg)
	if err != nil {
		uc.logger.Warn("CreateHold: validation failed for user=%d: %v", requester.ID, err)
		return nil, err
	}

	// 2. Повтор по ключу идемпотентности
	if params.key != nil {
		existing, err := uc.findExisting(ctx, requester.ID, *params.key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			uc.logger.Info("CreateHold: replaying booking id=%d for key=%s", existing.ID, *params.key)
			return replay(existing), nil
		}
	}

	// 3. Статус удержания с учетом запасного варианта
	statusID, statusCode, err := uc.policy.ResolveHold(uc.statuses)
	if err != nil {
		uc.logger.Error("CreateHold: %v", err)
		return nil, err
	}

	// 4. Получаем текущее время
	now := uc.timeProvider.Now()
	holdUntil := now.Add(time.Duration(params.holdSeconds) * time.Second)

	var result *domain.Booking
	var created []*domain.BookingLine
	var totals domain.Totals

	// 5. Создаем бронирование и строки в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 5.1. Бронирование
		booking, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			UserID:         requester.ID,
			StatusID:       statusID,
			Status:         statusCode,
			Total:          decimal.Zero,
			Currency:       &params.currency,
			IdempotencyKey: params.key,
			HoldExpiresAt:  &holdUntil,
		})
		if err != nil {
			if errors.Is(err, bookingRepo.ErrDuplicateIdempotencyKey) {
				return err
			}
			uc.logger.Error("CreateHold: failed to create booking for user=%d: %v", requester.ID, err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 5.2. Начальные строки
		created = make([]*domain.BookingLine, 0, len(req.Lines))
		for i, lineReq := range req.Lines {
			line, err := uc.lines.AddLine(txCtx, booking.ID, lineReq, requester)
			if err != nil {
				uc.logger.Warn("CreateHold: line #%d rejected for user=%d: %v", i, requester.ID, err)
				return err
			}
			created = append(created, line)
		}

		// 5.3. Переоценка
		totals, err = uc.lines.Reprice(txCtx, booking.ID)
		if err != nil {
			return err
		}
		booking.Total = totals.Total
		booking.Currency = totals.Currency

		result = booking
		return nil
	})

	if err != nil {
		// Параллельный запрос с тем же ключом успел первым
		if errors.Is(err, bookingRepo.ErrDuplicateIdempotencyKey) && params.key != nil {
			uc.logger.Warn("CreateHold: lost idempotency race for user=%d key=%s", requester.ID, *params.key)
			winner, findErr := uc.findExisting(ctx, requester.ID, *params.key)
			if findErr != nil {
				return nil, findErr
			}
			if winner != nil {
				return replay(winner), nil
			}
			return nil, fmt.Errorf("%w: duplicate key without winner", ErrInternal)
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ObserveTransition(string(result.Status))
	}
	if uc.events != nil {
		if err := uc.events.Publish(ctx, events.NewEvent(events.TypeHoldCreated, result, now)); err != nil {
			uc.logger.Error("CreateHold: failed to publish event for booking id=%d: %v", result.ID, err)
		}
	}

	uc.logger.Info("CreateHold: successfully created booking id=%d status=%s total=%s",
		result.ID, result.Status, totals.Total.StringFixed(domain.MoneyScale))

	return &Response{
		Booking: models.FromDomainBooking(result),
		Lines:   models.FromDomainLines(created),
		Totals:  models.FromDomainTotals(totals),
	}, nil
}

func (uc *UseCase) findExisting(ctx context.Context, userID int64, key string) (*domain.Booking, error) {
	existing, err := uc.bookingRepo.GetByIdempotencyKey(ctx, userID, key)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, nil
		}
		uc.logger.Error("CreateHold: failed to look up key=%s for user=%d: %v", key, userID, err)
		return nil, fmt.Errorf("%w: failed to look up idempotency key: %v", ErrInternal, err)
	}
	return existing, nil
}

func replay(b *domain.Booking) *Response {
	return &Response{
		Booking:  models.FromDomainBooking(b),
		Lines:    []*models.LineResponse{},
		Totals:   models.FromDomainTotals(domain.Totals{Total: b.Total, Currency: b.Currency}),
		Replayed: true,
	}
}
