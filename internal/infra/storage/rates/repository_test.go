package rates

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
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

func TestRepository_GetPlace(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`FROM places p LEFT JOIN facilities f`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "facility_id", "name", "timezone", "deleted_at"}).
				AddRow(3, 9, "Court 1", "Asia/Dubai", nil))

		place, err := repo.GetPlace(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, int64(9), place.FacilityID)
		require.NotNil(t, place.Timezone)
		assert.Equal(t, "Asia/Dubai", *place.Timezone)
		assert.False(t, place.IsDeleted())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`FROM places p`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetPlace(context.Background(), 3)
		require.ErrorIs(t, err, ErrPlaceNotFound)
	})
}

func TestRepository_GetCalendarDay(t *testing.T) {
	t.Run("decodes all columns", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`SELECT row_to_json\(c\)::text FROM calendar c WHERE c.gregorian_date = \$1`).
			WithArgs("2025-03-15").
			WillReturnRows(sqlmock.NewRows([]string{"row"}).
				AddRow(`{"gregorian_date":"2025-03-15","is_public_holiday":true,"holiday_name":"Eid"}`))

		day, err := repo.GetCalendarDay(context.Background(), "2025-03-15")
		require.NoError(t, err)
		assert.Equal(t, true, day.Flags["is_public_holiday"])
		assert.Equal(t, "Eid", day.Flags["holiday_name"])
	})

	t.Run("missing day", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`FROM calendar c`).WillReturnRows(sqlmock.NewRows([]string{"row"}))

		_, err := repo.GetCalendarDay(context.Background(), "2025-03-15")
		require.ErrorIs(t, err, ErrCalendarDayNotFound)
	})
}

func TestRepository_ListProfiles(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	mock.ExpectQuery(`FROM place_pricing_profiles WHERE deleted_at IS NULL AND place_id = \$1 ORDER BY is_default DESC, effective_from DESC, id DESC`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(profileColumns).
			AddRow(1, 3, "Default", 60, "100.00", "AED", "Asia/Dubai", "2025-01-01", nil, true, []byte(`{"tier":"std"}`), now, now, nil).
			AddRow(2, 3, "Summer", 120, "150.00", "AED", "Asia/Dubai", "2025-06-01", "2025-08-31", false, []byte(`{}`), now, now, nil))

	profiles, err := repo.ListProfiles(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	assert.True(t, profiles[0].IsDefault)
	assert.Equal(t, "100.00", profiles[0].BasePrice.StringFixed(2))
	assert.Equal(t, "std", profiles[0].Metadata["tier"])
	assert.Nil(t, profiles[0].EffectiveUntil)
	assert.Equal(t, ptr.Ptr("2025-08-31"), profiles[1].EffectiveUntil)
	assert.Equal(t, 120, profiles[1].SessionDurationMinutes)
}

func TestRepository_ListRules(t *testing.T) {
	t.Run("no profiles skips query", func(t *testing.T) {
		repo, mock := newRepo(t)
		rules, err := repo.ListRules(context.Background(), nil, true)
		require.NoError(t, err)
		assert.Empty(t, rules)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("decodes arrays and json", func(t *testing.T) {
		repo, mock := newRepo(t)
		now := time.Now()
		mock.ExpectQuery(`FROM place_price_rules WHERE deleted_at IS NULL AND is_active = \$1 AND pricing_profile_id IN \(\$2\) ORDER BY priority ASC, id ASC`).
			WillReturnRows(sqlmock.NewRows(ruleColumns).
				AddRow(5, 1, "Weekend", 10, "delta_percent", "-10", nil, nil, "[08:00:00,12:00:00)",
					"{5,6}", "{2025-03-15}", []byte(`{"is_public_holiday":true}`), nil, []byte(`{}`), true, now, now, nil))

		rules, err := repo.ListRules(context.Background(), []int64{1}, true)
		require.NoError(t, err)
		require.Len(t, rules, 1)

		rule := rules[0]
		assert.Equal(t, domain.OverrideDeltaPercent, rule.OverrideType)
		assert.Equal(t, "-10", rule.OverrideValue.String())
		assert.Nil(t, rule.Currency)
		assert.Equal(t, []int{5, 6}, rule.Weekdays)
		assert.Equal(t, []string{"2025-03-15"}, rule.SpecificDates)
		assert.Equal(t, true, rule.CalendarFlags["is_public_holiday"])
		assert.Nil(t, rule.Recurrence)
		require.NotNil(t, rule.TimeWindow)
		assert.Equal(t, "[08:00:00,12:00:00)", *rule.TimeWindow)
	})
}

func TestRepository_ClearDefaultProfiles(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(`UPDATE place_pricing_profiles SET is_default = \$1, updated_at = now\(\) WHERE deleted_at IS NULL AND is_default = \$2 AND place_id = \$3 AND id <> \$4`).
		WithArgs(false, true, int64(3), int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ClearDefaultProfiles(context.Background(), 3, ptr.Ptr(int64(8))))
	assert.NoError(t, mock.ExpectationsWereMet())
}
