package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/pkg/ptr"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func bookingRow() *sqlmock.Rows {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "user_id", "status_id", "code", "total", "currency", "idempotency_key",
		"hold_expires_at", "payment_reference", "payment_failure_reason", "paid_at", "created_at", "updated_at",
	}).AddRow(7, 10, 1, "hold", "180.00", "AED", nil, now.Add(15*time.Minute), nil, nil, nil, now, now)
}

func TestRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`FROM bookings b LEFT JOIN booking_statuses bs`).
			WithArgs(int64(7)).
			WillReturnRows(bookingRow())

		b, err := repo.GetByID(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), b.ID)
		assert.Equal(t, domain.StatusHold, b.Status)
		assert.True(t, decimal.RequireFromString("180").Equal(b.Total))
		require.NotNil(t, b.Currency)
		assert.Equal(t, "AED", *b.Currency)
		assert.Nil(t, b.IdempotencyKey)
		assert.NotNil(t, b.HoldExpiresAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`FROM bookings b`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByID(context.Background(), 7)
		require.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("no row lock outside transaction", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`b.deleted_at IS NULL$`).WillReturnRows(bookingRow())

		_, err := repo.GetByIDForUpdate(context.Background(), 7)
		require.NoError(t, err)
	})
}

func TestRepository_ListByUser(t *testing.T) {
	t.Run("all statuses", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`WHERE b.deleted_at IS NULL AND b.user_id = \$1 ORDER BY b.created_at DESC, b.id DESC`).
			WithArgs(int64(10)).
			WillReturnRows(bookingRow())

		bookings, err := repo.ListByUser(context.Background(), 10, nil)
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, int64(10), bookings[0].UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status filter", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`AND b.status_id = \$2`).
			WithArgs(int64(10), int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		bookings, err := repo.ListByUser(context.Background(), 10, ptr.Ptr(int64(3)))
		require.NoError(t, err)
		assert.Empty(t, bookings)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_ListByFacility(t *testing.T) {
	t.Run("facility only", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`WHERE b.deleted_at IS NULL AND EXISTS \(SELECT 1 FROM booking_lines bl JOIN places p ON p.id = bl.place_id WHERE bl.booking_id = b.id AND bl.deleted_at IS NULL AND p.facility_id = \$1\)`).
			WithArgs(int64(9)).
			WillReturnRows(bookingRow())

		bookings, err := repo.ListByFacility(context.Background(), domain.FacilityBookingsFilter{FacilityID: 9})
		require.NoError(t, err)
		assert.Len(t, bookings, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("all filters", func(t *testing.T) {
		repo, mock := newRepo(t)
		from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`bl.place_id = \$2 AND bl.slot && tstzrange\(\$3, \$4, '\[\)'\)\) AND b.status_id = \$5`).
			WithArgs(int64(9), int64(3), sqlmock.AnyArg(), sqlmock.AnyArg(), int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		filter := domain.FacilityBookingsFilter{
			FacilityID: 9,
			PlaceID:    ptr.Ptr(int64(3)),
			StatusID:   ptr.Ptr(int64(1)),
			From:       &from,
		}
		bookings, err := repo.ListByFacility(context.Background(), filter)
		require.NoError(t, err)
		assert.Empty(t, bookings)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_Create(t *testing.T) {
	t.Run("returns generated fields", func(t *testing.T) {
		repo, mock := newRepo(t)
		now := time.Now()
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(42, now, now))

		b, err := repo.Create(context.Background(), &domain.Booking{UserID: 10, StatusID: 1, Currency: ptr.Ptr("AED")})
		require.NoError(t, err)
		assert.Equal(t, int64(42), b.ID)
		assert.Equal(t, now, b.CreatedAt)
	})

	t.Run("duplicate idempotency key", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "bookings_user_idempotency_key_uq"})

		_, err := repo.Create(context.Background(), &domain.Booking{UserID: 10, StatusID: 1})
		require.ErrorIs(t, err, ErrDuplicateIdempotencyKey)
	})
}

func TestRepository_CreateLine(t *testing.T) {
	line := func() *domain.BookingLine {
		start := time.Date(2025, 3, 15, 6, 0, 0, 0, time.UTC)
		return &domain.BookingLine{
			BookingID: 7,
			PlaceID:   3,
			Slot:      domain.Slot{Start: start, End: start.Add(time.Hour)},
			Qty:       1,
			Price:     decimal.RequireFromString("90.00"),
			Currency:  "AED",
		}
	}

	t.Run("constraint violation is typed", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`INSERT INTO booking_lines .*tstzrange\(\$5, \$6, '\[\)'\)`).
			WillReturnError(&pq.Error{Code: "23P01", Constraint: "booking_lines_no_overlap", Message: "conflicting key value violates exclusion constraint"})

		_, err := repo.CreateLine(context.Background(), line())

		var cv *ConstraintViolationError
		require.True(t, errors.As(err, &cv))
		assert.Equal(t, "booking_lines_no_overlap", cv.Constraint)
		assert.Equal(t, "conflicting key value violates exclusion constraint", cv.Message)
	})

	t.Run("other driver errors are wrapped", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`INSERT INTO booking_lines`).WillReturnError(errors.New("connection reset"))

		_, err := repo.CreateLine(context.Background(), line())
		require.ErrorIs(t, err, ErrExecQuery)
	})

	t.Run("success defaults applied rule ids", func(t *testing.T) {
		repo, mock := newRepo(t)
		now := time.Now()
		mock.ExpectQuery(`INSERT INTO booking_lines`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(11, now, now))

		l, err := repo.CreateLine(context.Background(), line())
		require.NoError(t, err)
		assert.Equal(t, int64(11), l.ID)
		assert.NotNil(t, l.AppliedRuleIDs)
	})
}

func TestRepository_AggregateLines(t *testing.T) {
	t.Run("empty booking", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(price \* qty\), 0\)::numeric\(12,2\), COUNT\(DISTINCT currency\), MIN\(currency\) FROM booking_lines`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"total", "count", "currency"}).AddRow("0.00", 0, nil))

		agg, err := repo.AggregateLines(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, agg.Total.IsZero())
		assert.Equal(t, 0, agg.CurrencyCount)
		assert.Nil(t, agg.Currency)
	})

	t.Run("single currency", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`FROM booking_lines`).
			WillReturnRows(sqlmock.NewRows([]string{"total", "count", "currency"}).AddRow("190.00", 1, "AED"))

		agg, err := repo.AggregateLines(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "190.00", agg.Total.StringFixed(2))
		require.NotNil(t, agg.Currency)
		assert.Equal(t, "AED", *agg.Currency)
	})
}

func TestRepository_UpdateTotals(t *testing.T) {
	t.Run("without currency", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectExec(`UPDATE bookings SET total = \$1, updated_at = now\(\) WHERE id = \$2`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateTotals(context.Background(), 7, decimal.Zero, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("with currency", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectExec(`UPDATE bookings SET total = \$1, updated_at = now\(\), currency = \$2 WHERE id = \$3`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateTotals(context.Background(), 7, decimal.NewFromInt(5), ptr.Ptr("AED")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing booking", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectExec(`UPDATE bookings`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateTotals(context.Background(), 7, decimal.Zero, nil)
		require.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestRepository_SoftDeleteLine(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(`UPDATE booking_lines SET deleted_at = now\(\)`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDeleteLine(context.Background(), 11)
	require.ErrorIs(t, err, ErrLineNotFound)
}

func TestRepository_ListOccupiedSlots(t *testing.T) {
	repo, mock := newRepo(t)
	from := time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	busyStart := time.Date(2025, 3, 15, 6, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`b.deleted_at IS NULL AND bl.course_session_id IS NULL AND bl.deleted_at IS NULL AND bl.place_id = \$1 AND bl.slot && tstzrange\(\$2, \$3, '\[\)'\)`).
		WithArgs(int64(3), from, to).
		WillReturnRows(sqlmock.NewRows([]string{"lower", "upper"}).AddRow(busyStart, busyStart.Add(time.Hour)))

	slots, err := repo.ListOccupiedSlots(context.Background(), 3, from, to)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, busyStart, slots[0].Start)
	assert.Equal(t, time.Hour, slots[0].Duration())
	assert.NoError(t, mock.ExpectationsWereMet())
}
