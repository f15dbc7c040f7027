package rates

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	ratesRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/rates"
	"github.com/m04kA/SMC-FacilityBooking/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type countingTx struct{ calls int }

func (t *countingTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type memRates struct {
	places   map[int64]*domain.Place
	profiles map[int64]*domain.PricingProfile
	rules    map[int64]*domain.PriceRule
	nextID   int64
}

func newMemRates() *memRates {
	return &memRates{
		places: map[int64]*domain.Place{
			3: {ID: 3, FacilityID: 9, Timezone: ptr.Ptr("Europe/Moscow")},
			4: {ID: 4, FacilityID: 10},
		},
		profiles: map[int64]*domain.PricingProfile{},
		rules:    map[int64]*domain.PriceRule{},
		nextID:   100,
	}
}

func (m *memRates) id() int64 { m.nextID++; return m.nextID }

func (m *memRates) GetPlace(_ context.Context, id int64) (*domain.Place, error) {
	p, ok := m.places[id]
	if !ok {
		return nil, ratesRepo.ErrPlaceNotFound
	}
	return p, nil
}

func (m *memRates) ListProfiles(_ context.Context, placeID int64) ([]*domain.PricingProfile, error) {
	out := make([]*domain.PricingProfile, 0)
	for _, p := range m.profiles {
		if p.PlaceID == placeID && p.DeletedAt == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memRates) GetProfile(_ context.Context, id int64) (*domain.PricingProfile, error) {
	p, ok := m.profiles[id]
	if !ok || p.DeletedAt != nil {
		return nil, ratesRepo.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memRates) CreateProfile(_ context.Context, p *domain.PricingProfile) (*domain.PricingProfile, error) {
	cp := *p
	cp.ID = m.id()
	m.profiles[cp.ID] = &cp
	return &cp, nil
}

func (m *memRates) UpdateProfile(_ context.Context, p *domain.PricingProfile) (*domain.PricingProfile, error) {
	cp := *p
	m.profiles[cp.ID] = &cp
	return &cp, nil
}

func (m *memRates) ClearDefaultProfiles(_ context.Context, placeID int64, exceptID *int64) error {
	for _, p := range m.profiles {
		if p.PlaceID == placeID && (exceptID == nil || p.ID != *exceptID) {
			p.IsDefault = false
		}
	}
	return nil
}

func (m *memRates) SoftDeleteProfile(_ context.Context, id int64) error {
	p, ok := m.profiles[id]
	if !ok || p.DeletedAt != nil {
		return ratesRepo.ErrProfileNotFound
	}
	p.DeletedAt = ptr.Ptr(time.Now())
	p.IsDefault = false
	return nil
}

func (m *memRates) ListRules(_ context.Context, profileIDs []int64, _ bool) ([]*domain.PriceRule, error) {
	out := make([]*domain.PriceRule, 0)
	for _, r := range m.rules {
		if r.PricingProfileID == profileIDs[0] && r.DeletedAt == nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRates) GetRule(_ context.Context, id int64) (*domain.PriceRule, error) {
	r, ok := m.rules[id]
	if !ok || r.DeletedAt != nil {
		return nil, ratesRepo.ErrRuleNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRates) CreateRule(_ context.Context, r *domain.PriceRule) (*domain.PriceRule, error) {
	cp := *r
	cp.ID = m.id()
	m.rules[cp.ID] = &cp
	return &cp, nil
}

func (m *memRates) UpdateRule(_ context.Context, r *domain.PriceRule) (*domain.PriceRule, error) {
	cp := *r
	m.rules[cp.ID] = &cp
	return &cp, nil
}

func (m *memRates) SoftDeleteRule(_ context.Context, id int64) error {
	m.rules[id].DeletedAt = ptr.Ptr(time.Now())
	return nil
}

func (m *memRates) SoftDeleteRulesByProfile(_ context.Context, profileID int64) error {
	for _, r := range m.rules {
		if r.PricingProfileID == profileID {
			r.DeletedAt = ptr.Ptr(time.Now())
		}
	}
	return nil
}

var (
	staff = domain.Requester{ID: 5, FacilityIDs: []int64{9}}
	scope = Scope{FacilityID: 9, PlaceID: 3}
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func profileInput() ProfileInput {
	return ProfileInput{BasePrice: price("100"), EffectiveFrom: ptr.Ptr("2025-01-01")}
}

func TestService_CreateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults", func(t *testing.T) {
		repo := newMemRates()
		svc := NewService(repo, &countingTx{}, nopLogger{})

		p, err := svc.CreateProfile(ctx, scope, profileInput(), staff)
		require.NoError(t, err)
		assert.Equal(t, "Default", p.Name)
		assert.Equal(t, 60, p.SessionDurationMinutes)
		assert.Equal(t, "AED", p.Currency)
		assert.Equal(t, "Europe/Moscow", p.Timezone)
		assert.Equal(t, "100.00", p.BasePrice.StringFixed(2))
	})

	t.Run("place without timezone defaults to Dubai", func(t *testing.T) {
		repo := newMemRates()
		svc := NewService(repo, &countingTx{}, nopLogger{})
		p, err := svc.CreateProfile(ctx, Scope{FacilityID: 10, PlaceID: 4}, profileInput(), domain.Requester{ID: 1, IsAdmin: true})
		require.NoError(t, err)
		assert.Equal(t, "Asia/Dubai", p.Timezone)
	})

	t.Run("default flag moves in one transaction", func(t *testing.T) {
		repo := newMemRates()
		tx := &countingTx{}
		svc := NewService(repo, tx, nopLogger{})

		in := profileInput()
		in.IsDefault = ptr.Ptr(true)
		first, err := svc.CreateProfile(ctx, scope, in, staff)
		require.NoError(t, err)
		second, err := svc.CreateProfile(ctx, scope, in, staff)
		require.NoError(t, err)

		assert.False(t, repo.profiles[first.ID].IsDefault)
		assert.True(t, repo.profiles[second.ID].IsDefault)
		assert.Equal(t, 2, tx.calls)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(in *ProfileInput)
			msg    string
		}{
			{name: "bad session", mutate: func(in *ProfileInput) { in.SessionDurationMinutes = ptr.Ptr(90) },
				msg: "sessionDurationMinutes must be a multiple of 60 and at least 60"},
			{name: "short session", mutate: func(in *ProfileInput) { in.SessionDurationMinutes = ptr.Ptr(30) },
				msg: "sessionDurationMinutes must be a multiple of 60 and at least 60"},
			{name: "bad currency", mutate: func(in *ProfileInput) { in.Currency = ptr.Ptr("dollars") },
				msg: "currency must be a 3-letter code"},
			{name: "bad timezone", mutate: func(in *ProfileInput) { in.Timezone = ptr.Ptr("Mars/Base") },
				msg: `Unknown timezone "Mars/Base"`},
			{name: "bad from", mutate: func(in *ProfileInput) { in.EffectiveFrom = ptr.Ptr("2025-13-01") },
				msg: "effectiveFrom must be a date in YYYY-MM-DD format"},
			{name: "until before from", mutate: func(in *ProfileInput) { in.EffectiveUntil = ptr.Ptr("2024-12-31") },
				msg: "effectiveUntil must not be before effectiveFrom"},
			{name: "negative price", mutate: func(in *ProfileInput) { in.BasePrice = price("-1") },
				msg: "basePrice cannot be negative"},
			{name: "missing price", mutate: func(in *ProfileInput) { in.BasePrice = nil },
				msg: "basePrice is required"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := NewService(newMemRates(), &countingTx{}, nopLogger{})
				in := profileInput()
				tt.mutate(&in)

				_, err := svc.CreateProfile(ctx, scope, in, staff)
				require.ErrorIs(t, err, ErrInvalidProfile)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				assert.Equal(t, tt.msg, domain.Message(err, ""))
			})
		}
	})

	t.Run("access", func(t *testing.T) {
		svc := NewService(newMemRates(), &countingTx{}, nopLogger{})

		_, err := svc.CreateProfile(ctx, scope, profileInput(), domain.Requester{ID: 6, FacilityIDs: []int64{10}})
		require.ErrorIs(t, err, ErrAccessDenied)

		_, err = svc.CreateProfile(ctx, Scope{FacilityID: 10, PlaceID: 3}, profileInput(), staff)
		require.ErrorIs(t, err, ErrPlaceNotFound)

		_, err = svc.CreateProfile(ctx, Scope{FacilityID: 9, PlaceID: 404}, profileInput(), staff)
		require.ErrorIs(t, err, ErrPlaceNotFound)
	})
}

func TestService_UpdateAndDeleteProfile(t *testing.T) {
	ctx := context.Background()
	repo := newMemRates()
	svc := NewService(repo, &countingTx{}, nopLogger{})

	p, err := svc.CreateProfile(ctx, scope, profileInput(), staff)
	require.NoError(t, err)
	s := scope
	s.ProfileID = p.ID

	updated, err := svc.UpdateProfile(ctx, s, ProfileInput{Name: ptr.Ptr("  Peak  "), EffectiveUntil: ptr.Ptr("2025-12-31")}, staff)
	require.NoError(t, err)
	assert.Equal(t, "Peak", updated.Name)
	assert.Equal(t, "2025-12-31", *updated.EffectiveUntil)
	assert.Equal(t, "100.00", updated.BasePrice.StringFixed(2))

	cleared, err := svc.UpdateProfile(ctx, s, ProfileInput{EffectiveUntil: ptr.Ptr("")}, staff)
	require.NoError(t, err)
	assert.Nil(t, cleared.EffectiveUntil)

	rule, err := svc.CreateRule(ctx, s, RuleInput{
		Name: ptr.Ptr("Weekend"), OverrideType: ptr.Ptr("delta_percent"), OverrideValue: price("-10"),
	}, staff)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProfile(ctx, s, staff))
	assert.NotNil(t, repo.profiles[p.ID].DeletedAt)
	assert.NotNil(t, repo.rules[rule.ID].DeletedAt)

	_, err = svc.UpdateProfile(ctx, s, ProfileInput{}, staff)
	require.ErrorIs(t, err, ErrProfileNotFound)

	other := s
	other.PlaceID = 4
	other.FacilityID = 10
	_, err = svc.ListRules(ctx, other, domain.Requester{ID: 1, IsAdmin: true})
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestService_Rules(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*memRates, *Service, Scope) {
		repo := newMemRates()
		svc := NewService(repo, &countingTx{}, nopLogger{})
		p, err := svc.CreateProfile(ctx, scope, profileInput(), staff)
		require.NoError(t, err)
		s := scope
		s.ProfileID = p.ID
		return repo, svc, s
	}

	t.Run("defaults", func(t *testing.T) {
		_, svc, s := setup(t)
		rule, err := svc.CreateRule(ctx, s, RuleInput{
			Name: ptr.Ptr("Evening"), OverrideType: ptr.Ptr("delta_amount"), OverrideValue: price("20"),
			Currency: ptr.Ptr("aed"), TimeWindow: ptr.Ptr("[18:00:00,22:00:00)"),
		}, staff)
		require.NoError(t, err)
		assert.Equal(t, 100, rule.Priority)
		assert.True(t, rule.IsActive)
		assert.Equal(t, "AED", *rule.Currency)
	})

	t.Run("validation", func(t *testing.T) {
		base := func() RuleInput {
			return RuleInput{Name: ptr.Ptr("R"), OverrideType: ptr.Ptr("set"), OverrideValue: price("50"), Currency: ptr.Ptr("AED")}
		}
		tests := []struct {
			name   string
			mutate func(in *RuleInput)
			msg    string
		}{
			{name: "unknown type", mutate: func(in *RuleInput) { in.OverrideType = ptr.Ptr("multiply") },
				msg: "overrideType must be one of set, delta_amount, delta_percent"},
			{name: "percent out of range", mutate: func(in *RuleInput) {
				in.OverrideType = ptr.Ptr("delta_percent")
				in.OverrideValue = price("-101")
			}, msg: "delta_percent must be between -100 and 100"},
			{name: "weekday", mutate: func(in *RuleInput) { in.Weekdays = []int{7} },
				msg: "weekdays must be within 0..6"},
			{name: "specific date", mutate: func(in *RuleInput) { in.SpecificDates = []string{"15.03.2025"} },
				msg: `specificDates contains invalid date "15.03.2025"`},
			{name: "bad range", mutate: func(in *RuleInput) { in.EffectiveDates = ptr.Ptr("2025-01-01..2025-02-01") },
				msg: "effectiveDates must be a range like [from,to)"},
			{name: "inverted window", mutate: func(in *RuleInput) { in.TimeWindow = ptr.Ptr("[22:00:00,18:00:00)") },
				msg: "timeWindow lower bound must not exceed upper bound"},
			{name: "currency required", mutate: func(in *RuleInput) { in.Currency = nil },
				msg: "currency is required for set and delta_amount rules"},
			{name: "currency mismatch", mutate: func(in *RuleInput) { in.Currency = ptr.Ptr("USD") },
				msg: "currency must match profile currency AED"},
			{name: "priority", mutate: func(in *RuleInput) { in.Priority = ptr.Ptr(1001) },
				msg: "priority must be between 0 and 1000"},
			{name: "missing value", mutate: func(in *RuleInput) { in.OverrideValue = nil },
				msg: "overrideValue is required"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, svc, s := setup(t)
				in := base()
				tt.mutate(&in)

				_, err := svc.CreateRule(ctx, s, in, staff)
				require.ErrorIs(t, err, ErrInvalidRule)
				assert.Equal(t, tt.msg, domain.Message(err, ""))
			})
		}
	})

	t.Run("update validates merged rule", func(t *testing.T) {
		_, svc, s := setup(t)
		rule, err := svc.CreateRule(ctx, s, RuleInput{
			Name: ptr.Ptr("Weekend"), OverrideType: ptr.Ptr("delta_percent"), OverrideValue: price("-10"),
		}, staff)
		require.NoError(t, err)

		_, err = svc.UpdateRule(ctx, s, rule.ID, RuleInput{OverrideType: ptr.Ptr("set")}, staff)
		require.ErrorIs(t, err, ErrInvalidRule)

		updated, err := svc.UpdateRule(ctx, s, rule.ID, RuleInput{IsActive: ptr.Ptr(false), Weekdays: []int{5, 6}}, staff)
		require.NoError(t, err)
		assert.False(t, updated.IsActive)
		assert.Equal(t, []int{5, 6}, updated.Weekdays)
		assert.Equal(t, "-10", updated.OverrideValue.String())

		rules, err := svc.ListRules(ctx, s, staff)
		require.NoError(t, err)
		assert.Len(t, rules, 1)

		require.NoError(t, svc.DeleteRule(ctx, s, rule.ID, staff))
		err = svc.DeleteRule(ctx, s, rule.ID, staff)
		require.ErrorIs(t, err, ErrRuleNotFound)
	})
}
