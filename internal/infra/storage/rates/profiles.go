package rates

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-FacilityBooking/pkg/psqlbuilder"
)

var profileColumns = []string{
	"id",
	"place_id",
	"name",
	"session_duration_minutes",
	"base_price",
	"currency",
	"timezone",
	"to_char(effective_from, 'YYYY-MM-DD')",
	"to_char(effective_until, 'YYYY-MM-DD')",
	"is_default",
	"metadata",
	"created_at",
	"updated_at",
	"deleted_at",
}

// ListProfiles возвращает неудаленные профили площадки:
// сначала профиль по умолчанию, затем по убыванию effective_from
func (r *Repository) ListProfiles(ctx context.Context, placeID int64) ([]*domain.PricingProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(profileColumns...).
		From("place_pricing_profiles").
		Where(squirrel.Eq{"place_id": placeID, "deleted_at": nil}).
		OrderBy("is_default DESC", "effective_from DESC", "id DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListProfiles - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListProfiles - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	profiles := make([]*domain.PricingProfile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListProfiles - scan profile: %v", ErrScanRow, err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListProfiles - rows iteration: %v", ErrScanRow, err)
	}

	return profiles, nil
}

// GetProfile получает неудаленный профиль по ID
func (r *Repository) GetProfile(ctx context.Context, id int64) (*domain.PricingProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(profileColumns...).
		From("place_pricing_profiles").
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetProfile - build select query: %v", ErrBuildQuery, err)
	}

	profile, err := scanProfile(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetProfile - scan profile: %v", ErrScanRow, err)
	}

	return profile, nil
}

// CreateProfile создает ценовой профиль
func (r *Repository) CreateProfile(ctx context.Context, profile *domain.PricingProfile) (*domain.PricingProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	metadata, err := encodeObject(profile.Metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateProfile - encode metadata: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert("place_pricing_profiles").
		Columns(
			"place_id",
			"name",
			"session_duration_minutes",
			"base_price",
			"currency",
			"timezone",
			"effective_from",
			"effective_until",
			"is_default",
			"metadata",
		).
		Values(
			profile.PlaceID,
			profile.Name,
			profile.SessionDurationMinutes,
			profile.BasePrice,
			profile.Currency,
			profile.Timezone,
			profile.EffectiveFrom,
			profile.EffectiveUntil,
			profile.IsDefault,
			metadata,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateProfile - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&profile.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateProfile - execute insert: %v", ErrExecQuery, err)
	}

	profile.CreatedAt = createdAt.Time
	profile.UpdatedAt = updatedAt.Time

	return profile, nil
}

// UpdateProfile перезаписывает изменяемые поля профиля
func (r *Repository) UpdateProfile(ctx context.Context, profile *domain.PricingProfile) (*domain.PricingProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	metadata, err := encodeObject(profile.Metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateProfile - encode metadata: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Update("place_pricing_profiles").
		Set("name", profile.Name).
		Set("session_duration_minutes", profile.SessionDurationMinutes).
		Set("base_price", profile.BasePrice).
		Set("currency", profile.Currency).
		Set("timezone", profile.Timezone).
		Set("effective_from", profile.EffectiveFrom).
		Set("effective_until", profile.EffectiveUntil).
		Set("is_default", profile.IsDefault).
		Set("metadata", metadata).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": profile.ID, "deleted_at": nil}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateProfile - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateProfile - execute update: %v", ErrExecQuery, err)
	}

	profile.UpdatedAt = updatedAt.Time
	return profile, nil
}

// ClearDefaultProfiles снимает флаг по умолчанию со всех профилей площадки, кроме exceptID
func (r *Repository) ClearDefaultProfiles(ctx context.Context, placeID int64, exceptID *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update("place_pricing_profiles").
		Set("is_default", false).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"place_id": placeID, "is_default": true, "deleted_at": nil})
	if exceptID != nil {
		builder = builder.Where(squirrel.NotEq{"id": *exceptID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ClearDefaultProfiles - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ClearDefaultProfiles - execute update: %v", ErrExecQuery, err)
	}
	return nil
}

// SoftDeleteProfile помечает профиль удаленным и снимает флаг по умолчанию
func (r *Repository) SoftDeleteProfile(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("place_pricing_profiles").
		Set("deleted_at", squirrel.Expr("now()")).
		Set("is_default", false).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SoftDeleteProfile - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SoftDeleteProfile - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SoftDeleteProfile - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func scanProfile(row rowScanner) (*domain.PricingProfile, error) {
	var profile domain.PricingProfile
	var metadata []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&profile.ID,
		&profile.PlaceID,
		&profile.Name,
		&profile.SessionDurationMinutes,
		&profile.BasePrice,
		&profile.Currency,
		&profile.Timezone,
		&profile.EffectiveFrom,
		&profile.EffectiveUntil,
		&profile.IsDefault,
		&metadata,
		&createdAt,
		&updatedAt,
		&profile.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	if profile.Metadata, err = decodeJSON(metadata); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}

	profile.CreatedAt = createdAt.Time
	profile.UpdatedAt = updatedAt.Time

	return &profile, nil
}
