package status

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

func TestRepository_LoadTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, code FROM booking_statuses ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code"}).
			AddRow(1, "hold").
			AddRow(3, "pending_payment").
			AddRow(4, "confirmed"))

	table, err := NewRepository(db).LoadTable(context.Background())
	require.NoError(t, err)

	id, ok := table.ID(domain.StatusPendingPayment)
	assert.True(t, ok)
	assert.Equal(t, int64(3), id)

	id, ok = table.ID(domain.StatusConfirmed)
	assert.True(t, ok)
	assert.Equal(t, int64(4), id)

	_, ok = table.ID(domain.StatusCancelled)
	assert.False(t, ok)
}
