package booking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-FacilityBooking/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"b.id",
	"b.user_id",
	"b.status_id",
	"COALESCE(bs.code, '')",
	"b.total",
	"b.currency",
	"b.idempotency_key",
	"b.hold_expires_at",
	"b.payment_reference",
	"b.payment_failure_reason",
	"b.paid_at",
	"b.created_at",
	"b.updated_at",
}

// Repository репозиторий для работы с бронированиями и их строками
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Повтор ключа идемпотентности для того же пользователя возвращает ErrDuplicateIdempotencyKey.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"status_id",
			"total",
			"currency",
			"idempotency_key",
			"hold_expires_at",
		).
		Values(
			booking.UserID,
			booking.StatusID,
			booking.Total,
			booking.Currency,
			booking.IdempotencyKey,
			booking.HoldExpiresAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateIdempotencyKey
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"b.id": id}, false)
}

// GetByIDForUpdate получает бронирование по ID и блокирует строку до конца транзакции.
// Вне транзакции работает как GetByID.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByIDForUpdate", squirrel.Eq{"b.id": id}, dbmetrics.IsInTransaction(ctx))
}

// GetByIdempotencyKey ищет бронирование пользователя по ключу идемпотентности
func (r *Repository) GetByIdempotencyKey(ctx context.Context, userID int64, key string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByIdempotencyKey", squirrel.Eq{"b.user_id": userID, "b.idempotency_key": key}, false)
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq, forUpdate bool) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		LeftJoin("booking_statuses bs ON bs.id = b.status_id").
		Where(where).
		Where(squirrel.Eq{"b.deleted_at": nil})

	if forUpdate {
		builder = builder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	return booking, nil
}

// ListByUser получает бронирования пользователя, новые первыми.
// Опционально фильтрует по статусу.
func (r *Repository) ListByUser(ctx context.Context, userID int64, statusID *int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		LeftJoin("booking_statuses bs ON bs.id = b.status_id").
		Where(squirrel.Eq{"b.user_id": userID, "b.deleted_at": nil}).
		OrderBy("b.created_at DESC", "b.id DESC")

	if statusID != nil {
		builder = builder.Where(squirrel.Eq{"b.status_id": *statusID})
	}

	return r.list(ctx, executor, "ListByUser", builder)
}

func (r *Repository) list(ctx context.Context, executor DBExecutor, op string, builder squirrel.SelectBuilder) ([]*domain.Booking, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrScanRow, op, err)
	}

	return bookings, nil
}

// ListByFacility получает бронирования, у которых есть неудаленные строки на площадках объекта.
// Период задает пересечение со слотом строки, открытые границы не ограничивают.
func (r *Repository) ListByFacility(ctx context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	lines := squirrel.Select("1").
		From("booking_lines bl").
		Join("places p ON p.id = bl.place_id").
		Where("bl.booking_id = b.id").
		Where(squirrel.Eq{"bl.deleted_at": nil, "p.facility_id": filter.FacilityID})

	if filter.PlaceID != nil {
		lines = lines.Where(squirrel.Eq{"bl.place_id": *filter.PlaceID})
	}
	if filter.From != nil || filter.To != nil {
		lines = lines.Where("bl.slot && tstzrange(?, ?, '[)')", filter.From, filter.To)
	}

	linesQuery, linesArgs, err := lines.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByFacility - build lines subquery: %v", ErrBuildQuery, err)
	}

	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		LeftJoin("booking_statuses bs ON bs.id = b.status_id").
		Where(squirrel.Eq{"b.deleted_at": nil}).
		Where(squirrel.Expr("EXISTS ("+linesQuery+")", linesArgs...)).
		OrderBy("b.created_at DESC", "b.id DESC")

	if filter.StatusID != nil {
		builder = builder.Where(squirrel.Eq{"b.status_id": *filter.StatusID})
	}

	return r.list(ctx, executor, "ListByFacility", builder)
}

// UpdateLifecycle сохраняет статус и платежные поля бронирования
func (r *Repository) UpdateLifecycle(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status_id", booking.StatusID).
		Set("hold_expires_at", booking.HoldExpiresAt).
		Set("payment_reference", booking.PaymentReference).
		Set("payment_failure_reason", booking.PaymentFailureReason).
		Set("paid_at", booking.PaidAt).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateLifecycle - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateLifecycle", query, args, ErrBookingNotFound)
}

// UpdateCurrency устанавливает валюту бронирования
func (r *Repository) UpdateCurrency(ctx context.Context, id int64, currency string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("currency", currency).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateCurrency - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateCurrency", query, args, ErrBookingNotFound)
}

// UpdateTotals записывает итог; валюта меняется, только если передана
func (r *Repository) UpdateTotals(ctx context.Context, id int64, total decimal.Decimal, currency *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update("bookings").
		Set("total", total).
		Set("updated_at", squirrel.Expr("now()"))
	if currency != nil {
		builder = builder.Set("currency", *currency)
	}

	query, args, err := builder.Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateTotals - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateTotals", query, args, ErrBookingNotFound)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}, notFound error) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var status string
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.StatusID,
		&status,
		&booking.Total,
		&booking.Currency,
		&booking.IdempotencyKey,
		&booking.HoldExpiresAt,
		&booking.PaymentReference,
		&booking.PaymentFailureReason,
		&booking.PaidAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatus(status)
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}
