package status

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-FacilityBooking/pkg/psqlbuilder"
)

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("status.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("status.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("status.repository: failed to scan row")
)

// Repository читает справочник статусов бронирования
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория статусов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// LoadTable загружает весь справочник booking_statuses
func (r *Repository) LoadTable(ctx context.Context) (*domain.StatusTable, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "code").
		From("booking_statuses").
		OrderBy("id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: LoadTable - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: LoadTable - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make(map[domain.BookingStatus]int64)
	for rows.Next() {
		var id int64
		var code string
		if err := rows.Scan(&id, &code); err != nil {
			return nil, fmt.Errorf("%w: LoadTable - scan status: %v", ErrScanRow, err)
		}
		ids[domain.BookingStatus(code)] = id
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: LoadTable - rows iteration: %v", ErrScanRow, err)
	}

	return domain.NewStatusTable(ids), nil
}
