package lines

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/booking"
	ratesRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/rates"
	"github.com/m04kA/SMC-FacilityBooking/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type inlineTx struct{ calls int }

func (t *inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type memBookings struct {
	bookings  map[int64]*domain.Booking
	lines     []*domain.BookingLine
	places    map[int64]*domain.Place
	createErr error
	nextID    int64
}

func newMemBookings() *memBookings {
	return &memBookings{
		bookings: map[int64]*domain.Booking{},
		places: map[int64]*domain.Place{
			1: {ID: 1, FacilityID: 100},
			2: {ID: 2, FacilityID: 200},
		},
	}
}

func (m *memBookings) GetByIDForUpdate(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBookings) UpdateCurrency(_ context.Context, id int64, currency string) error {
	m.bookings[id].Currency = &currency
	return nil
}

func (m *memBookings) UpdateTotals(_ context.Context, id int64, total decimal.Decimal, currency *string) error {
	m.bookings[id].Total = total
	if currency != nil {
		m.bookings[id].Currency = currency
	}
	return nil
}

func (m *memBookings) CreateLine(_ context.Context, line *domain.BookingLine) (*domain.BookingLine, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	cp := *line
	cp.ID = m.nextID
	cp.CreatedAt = time.Unix(m.nextID, 0)
	m.lines = append(m.lines, &cp)
	return &cp, nil
}

func (m *memBookings) GetLine(_ context.Context, lineID int64) (*domain.BookingLine, error) {
	for _, l := range m.lines {
		if l.ID == lineID {
			return l, nil
		}
	}
	return nil, bookingRepo.ErrLineNotFound
}

func (m *memBookings) active(bookingID int64) []*domain.BookingLine {
	out := make([]*domain.BookingLine, 0)
	for _, l := range m.lines {
		if l.BookingID == bookingID && !l.IsDeleted() {
			out = append(out, l)
		}
	}
	return out
}

func (m *memBookings) ListLines(_ context.Context, bookingID int64) ([]*domain.BookingLine, error) {
	out := m.active(bookingID)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memBookings) CountActiveLines(_ context.Context, bookingID int64) (int, error) {
	return len(m.active(bookingID)), nil
}

func (m *memBookings) SoftDeleteLine(_ context.Context, lineID int64) error {
	for _, l := range m.lines {
		if l.ID == lineID && !l.IsDeleted() {
			l.DeletedAt = ptr.Ptr(time.Now())
			return nil
		}
	}
	return bookingRepo.ErrLineNotFound
}

func (m *memBookings) AggregateLines(_ context.Context, bookingID int64) (*bookingRepo.LineAggregate, error) {
	agg := &bookingRepo.LineAggregate{Total: decimal.Zero}
	currencies := map[string]struct{}{}
	for _, l := range m.active(bookingID) {
		agg.Total = agg.Total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Qty))))
		currencies[l.Currency] = struct{}{}
		if agg.Currency == nil || l.Currency < *agg.Currency {
			agg.Currency = ptr.Ptr(l.Currency)
		}
	}
	agg.CurrencyCount = len(currencies)
	return agg, nil
}

func (m *memBookings) ListLineFacilityIDs(_ context.Context, bookingID int64) ([]int64, error) {
	seen := map[int64]bool{}
	out := make([]int64, 0)
	for _, l := range m.active(bookingID) {
		f := m.places[l.PlaceID].FacilityID
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memBookings) GetPlace(_ context.Context, id int64) (*domain.Place, error) {
	p, ok := m.places[id]
	if !ok {
		return nil, ratesRepo.ErrPlaceNotFound
	}
	return p, nil
}

// fixedPricer: площадка 1 в AED по 100, площадка 2 в USD по 30
type fixedPricer struct{ err error }

func (p fixedPricer) QuoteForSlot(_ context.Context, placeID int64, _, _ time.Time) (*domain.Quote, error) {
	if p.err != nil {
		return nil, p.err
	}
	q := &domain.Quote{PlaceID: placeID, PricingProfileID: placeID, Currency: "AED", UnitPrice: decimal.RequireFromString("100.00")}
	if placeID == 2 {
		q.Currency = "USD"
		q.UnitPrice = decimal.RequireFromString("30.00")
	}
	q.PricingDetails = domain.PricingDetails{ProfileID: placeID, Currency: q.Currency}
	return q, nil
}

var (
	owner   = domain.Requester{ID: 7}
	slotAt  = time.Date(2025, time.March, 17, 6, 0, 0, 0, time.UTC)
	lineFor = func(placeID int64) AddLineRequest {
		return AddLineRequest{PlaceID: placeID, Start: slotAt, End: slotAt.Add(time.Hour)}
	}
)

func newService(repo *memBookings) *Service {
	return NewService(repo, repo, fixedPricer{}, &inlineTx{}, nopLogger{})
}

func seedBooking(repo *memBookings, currency *string) *domain.Booking {
	b := &domain.Booking{ID: 1, UserID: owner.ID, Status: domain.StatusHold, Currency: currency, Total: decimal.Zero}
	repo.bookings[b.ID] = b
	return b
}

func TestService_AddLine(t *testing.T) {
	ctx := context.Background()

	t.Run("adopts quote currency and reprices", func(t *testing.T) {
		repo := newMemBookings()
		seedBooking(repo, nil)
		req := lineFor(1)
		req.Qty = ptr.Ptr(2)

		line, err := newService(repo).AddLine(ctx, 1, req, owner)
		require.NoError(t, err)
		assert.Equal(t, "100.00", line.Price.StringFixed(2))
		assert.Equal(t, 2, line.Qty)
		assert.Equal(t, "AED", *repo.bookings[1].Currency)
		assert.Equal(t, "200.00", repo.bookings[1].Total.StringFixed(2))
	})

	t.Run("mixing currencies with existing lines fails", func(t *testing.T) {
		repo := newMemBookings()
		seedBooking(repo, ptr.Ptr("AED"))
		svc := newService(repo)
		_, err := svc.AddLine(ctx, 1, lineFor(1), owner)
		require.NoError(t, err)

		_, err = svc.AddLine(ctx, 1, lineFor(2), owner)
		require.ErrorIs(t, err, ErrCurrencyConflict)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, "Cannot mix currencies within a booking", domain.Message(err, ""))
		assert.Len(t, repo.active(1), 1)
	})

	t.Run("empty booking switches currency", func(t *testing.T) {
		repo := newMemBookings()
		seedBooking(repo, ptr.Ptr("AED"))

		_, err := newService(repo).AddLine(ctx, 1, lineFor(2), owner)
		require.NoError(t, err)
		assert.Equal(t, "USD", *repo.bookings[1].Currency)
		assert.Equal(t, "30.00", repo.bookings[1].Total.StringFixed(2))
	})

	t.Run("booking not found", func(t *testing.T) {
		_, err := newService(newMemBookings()).AddLine(ctx, 1, lineFor(1), owner)
		require.ErrorIs(t, err, ErrBookingNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("place not found", func(t *testing.T) {
		repo := newMemBookings()
		seedBooking(repo, nil)
		_, err := newService(repo).AddLine(ctx, 1, lineFor(99), owner)
		require.ErrorIs(t, err, ErrPlaceNotFound)
	})

	t.Run("access", func(t *testing.T) {
		tests := []struct {
			name      string
			requester domain.Requester
			wantErr   error
		}{
			{name: "stranger", requester: domain.Requester{ID: 8}, wantErr: ErrAccessDenied},
			{name: "staff of other facility", requester: domain.Requester{ID: 8, FacilityIDs: []int64{200}}, wantErr: ErrAccessDenied},
			{name: "staff of place facility", requester: domain.Requester{ID: 8, FacilityIDs: []int64{100}}},
			{name: "admin", requester: domain.Requester{ID: 8, IsAdmin: true}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := newMemBookings()
				seedBooking(repo, nil)
				_, err := newService(repo).AddLine(ctx, 1, lineFor(1), tt.requester)
				if tt.wantErr != nil {
					require.ErrorIs(t, err, tt.wantErr)
					assert.ErrorIs(t, err, domain.ErrUnauthorized)
					return
				}
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid slot and qty", func(t *testing.T) {
		repo := newMemBookings()
		seedBooking(repo, nil)
		svc := newService(repo)

		_, err := svc.AddLine(ctx, 1, AddLineRequest{PlaceID: 1, Start: slotAt, End: slotAt}, owner)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, "endAt must be after startAt", domain.Message(err, ""))

		_, err = svc.AddLine(ctx, 1, AddLineRequest{PlaceID: 1, End: slotAt}, owner)
		assert.Equal(t, "Invalid startAt", domain.Message(err, ""))

		req := lineFor(1)
		req.Qty = ptr.Ptr(0)
		_, err = svc.AddLine(ctx, 1, req, owner)
		require.ErrorIs(t, err, ErrInvalidQty)
	})

	t.Run("pricing error propagates with its kind", func(t *testing.T) {
		repo := newMemBookings()
		seedBooking(repo, nil)
		misaligned := domain.InvalidInput("Requested slot must align with 60 minute session blocks")
		svc := NewService(repo, repo, fixedPricer{err: misaligned}, &inlineTx{}, nopLogger{})

		_, err := svc.AddLine(ctx, 1, lineFor(1), owner)
		require.ErrorIs(t, err, misaligned)
	})

	t.Run("constraint violation carries database message", func(t *testing.T) {
		repo := newMemBookings()
		seedBooking(repo, nil)
		repo.createErr = &bookingRepo.ConstraintViolationError{
			Code: "23P01", Constraint: "booking_lines_no_overlap", Message: "conflicting key value violates exclusion constraint",
		}

		_, err := newService(repo).AddLine(ctx, 1, lineFor(1), owner)
		require.ErrorIs(t, err, ErrConstraintViolation)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, "conflicting key value violates exclusion constraint", domain.Message(err, ""))
	})

	t.Run("other store errors are internal", func(t *testing.T) {
		repo := newMemBookings()
		seedBooking(repo, nil)
		repo.createErr = errors.New("connection reset")

		_, err := newService(repo).AddLine(ctx, 1, lineFor(1), owner)
		require.ErrorIs(t, err, ErrInternal)
	})
}

func TestService_RemoveLine(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*memBookings, *Service, *domain.BookingLine) {
		repo := newMemBookings()
		seedBooking(repo, nil)
		svc := newService(repo)
		line, err := svc.AddLine(ctx, 1, lineFor(1), owner)
		require.NoError(t, err)
		return repo, svc, line
	}

	t.Run("removes and reprices keeping currency", func(t *testing.T) {
		repo, svc, line := setup(t)

		res, err := svc.RemoveLine(ctx, 1, line.ID, owner)
		require.NoError(t, err)
		assert.True(t, res.Removed)
		assert.True(t, repo.bookings[1].Total.IsZero())
		assert.Equal(t, "AED", *repo.bookings[1].Currency)
	})

	t.Run("missing line", func(t *testing.T) {
		_, svc, _ := setup(t)

		res, err := svc.RemoveLine(ctx, 1, 404, owner)
		require.NoError(t, err)
		assert.False(t, res.Removed)
		assert.Equal(t, LineNotFoundMessage, res.Message)
	})

	t.Run("already deleted line", func(t *testing.T) {
		_, svc, line := setup(t)
		_, err := svc.RemoveLine(ctx, 1, line.ID, owner)
		require.NoError(t, err)

		res, err := svc.RemoveLine(ctx, 1, line.ID, owner)
		require.NoError(t, err)
		assert.False(t, res.Removed)
	})

	t.Run("line of another booking", func(t *testing.T) {
		repo, svc, line := setup(t)
		repo.bookings[2] = &domain.Booking{ID: 2, UserID: owner.ID}

		res, err := svc.RemoveLine(ctx, 2, line.ID, owner)
		require.NoError(t, err)
		assert.False(t, res.Removed)
		assert.Len(t, repo.active(1), 1)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		_, svc, line := setup(t)
		_, err := svc.RemoveLine(ctx, 1, line.ID, domain.Requester{ID: 99})
		require.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestService_Reprice(t *testing.T) {
	ctx := context.Background()

	t.Run("empty booking zeroes total and keeps currency", func(t *testing.T) {
		repo := newMemBookings()
		b := seedBooking(repo, ptr.Ptr("AED"))
		b.Total = decimal.RequireFromString("55.00")

		totals, err := newService(repo).Reprice(ctx, 1)
		require.NoError(t, err)
		assert.True(t, totals.Total.IsZero())
		require.NotNil(t, totals.Currency)
		assert.Equal(t, "AED", *totals.Currency)
	})

	t.Run("idempotent", func(t *testing.T) {
		repo := newMemBookings()
		seedBooking(repo, nil)
		svc := newService(repo)
		_, err := svc.AddLine(ctx, 1, lineFor(1), owner)
		require.NoError(t, err)

		first, err := svc.Reprice(ctx, 1)
		require.NoError(t, err)
		second, err := svc.Reprice(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, first.Total.String(), second.Total.String())
		assert.Equal(t, "100.00", second.Total.StringFixed(2))
	})

	t.Run("mixed currencies", func(t *testing.T) {
		repo := newMemBookings()
		seedBooking(repo, nil)
		repo.lines = []*domain.BookingLine{
			{ID: 1, BookingID: 1, PlaceID: 1, Qty: 1, Price: decimal.NewFromInt(10), Currency: "AED"},
			{ID: 2, BookingID: 1, PlaceID: 2, Qty: 1, Price: decimal.NewFromInt(10), Currency: "USD"},
		}

		_, err := newService(repo).Reprice(ctx, 1)
		require.ErrorIs(t, err, ErrMixedCurrencies)
		assert.Equal(t, "Booking has mixed currencies", domain.Message(err, ""))
	})

	t.Run("booking not found", func(t *testing.T) {
		_, err := newService(newMemBookings()).Reprice(ctx, 1)
		require.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestService_ListLines(t *testing.T) {
	ctx := context.Background()
	repo := newMemBookings()
	seedBooking(repo, nil)
	svc := newService(repo)

	first, err := svc.AddLine(ctx, 1, lineFor(1), owner)
	require.NoError(t, err)
	second, err := svc.AddLine(ctx, 1, lineFor(1), owner)
	require.NoError(t, err)

	lines, err := svc.ListLines(ctx, 1, domain.Requester{ID: 50, FacilityIDs: []int64{100}})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, second.ID, lines[0].ID)
	assert.Equal(t, first.ID, lines[1].ID)

	_, err = svc.ListLines(ctx, 1, domain.Requester{ID: 50, FacilityIDs: []int64{200}})
	require.ErrorIs(t, err, ErrAccessDenied)
}
