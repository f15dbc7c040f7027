package rates

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-FacilityBooking/pkg/psqlbuilder"
)

// Repository репозиторий тарифов: площадки, ценовые профили, правила и календарь
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория тарифов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetPlace получает площадку по ID, включая удаленные.
// Timezone берется из объекта, к которому относится площадка.
func (r *Repository) GetPlace(ctx context.Context, id int64) (*domain.Place, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"p.id",
		"p.facility_id",
		"p.name",
		"f.timezone",
		"p.deleted_at",
	).
		From("places p").
		LeftJoin("facilities f ON f.id = p.facility_id").
		Where(squirrel.Eq{"p.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPlace - build select query: %v", ErrBuildQuery, err)
	}

	var place domain.Place
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&place.ID,
		&place.FacilityID,
		&place.Name,
		&place.Timezone,
		&place.DeletedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPlaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPlace - scan place: %v", ErrScanRow, err)
	}

	return &place, nil
}

// GetCalendarDay получает строку календаря на дату YYYY-MM-DD со всеми колонками
func (r *Repository) GetCalendarDay(ctx context.Context, date string) (*domain.CalendarDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("row_to_json(c)::text").
		From("calendar c").
		Where(squirrel.Eq{"c.gregorian_date": date}).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetCalendarDay - build select query: %v", ErrBuildQuery, err)
	}

	var raw []byte
	err = executor.QueryRowContext(ctx, query, args...).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrCalendarDayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCalendarDay - scan row: %v", ErrScanRow, err)
	}

	flags := make(map[string]any)
	if err := json.Unmarshal(raw, &flags); err != nil {
		return nil, fmt.Errorf("%w: GetCalendarDay - decode row: %v", ErrScanRow, err)
	}

	return &domain.CalendarDay{Date: date, Flags: flags}, nil
}

// encodeJSON кодирует map в jsonb-параметр; nil становится NULL
func encodeJSON(v map[string]any) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// encodeObject кодирует map в jsonb-параметр; nil становится '{}'
func encodeObject(v map[string]any) (interface{}, error) {
	if v == nil {
		return "{}", nil
	}
	return encodeJSON(v)
}

func decodeJSON(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
