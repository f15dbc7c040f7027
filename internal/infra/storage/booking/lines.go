package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-FacilityBooking/pkg/psqlbuilder"
)

var lineColumns = []string{
	"id",
	"booking_id",
	"place_id",
	"teacher_id",
	"course_session_id",
	"lower(slot)",
	"upper(slot)",
	"qty",
	"price",
	"currency",
	"COALESCE(pricing_profile_id, 0)",
	"applied_rule_ids",
	"pricing_details",
	"created_at",
	"updated_at",
	"deleted_at",
}

// LineAggregate сумма и валюты неудаленных строк бронирования
type LineAggregate struct {
	Total         decimal.Decimal
	CurrencyCount int
	Currency      *string
}

// CreateLine сохраняет строку бронирования.
// Нарушения ограничений БД возвращаются как *ConstraintViolationError.
func (r *Repository) CreateLine(ctx context.Context, line *domain.BookingLine) (*domain.BookingLine, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	details, err := json.Marshal(line.PricingDetails)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateLine - encode pricing details: %v", ErrEncode, err)
	}

	ruleIDs := line.AppliedRuleIDs
	if ruleIDs == nil {
		ruleIDs = []int64{}
	}

	query, args, err := psqlbuilder.Insert("booking_lines").
		Columns(
			"booking_id",
			"place_id",
			"teacher_id",
			"course_session_id",
			"slot",
			"qty",
			"price",
			"currency",
			"pricing_profile_id",
			"applied_rule_ids",
			"pricing_details",
		).
		Values(
			line.BookingID,
			line.PlaceID,
			line.TeacherID,
			line.CourseSessionID,
			squirrel.Expr("tstzrange(?, ?, '[)')", line.Slot.Start, line.Slot.End),
			line.Qty,
			line.Price,
			line.Currency,
			line.PricingProfileID,
			pq.Array(ruleIDs),
			details,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateLine - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&line.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if cv, ok := asConstraintViolation(err); ok {
			return nil, cv
		}
		return nil, fmt.Errorf("%w: CreateLine - execute insert: %v", ErrExecQuery, err)
	}

	line.AppliedRuleIDs = ruleIDs
	line.CreatedAt = createdAt.Time
	line.UpdatedAt = updatedAt.Time

	return line, nil
}

// GetLine получает строку по ID, включая удаленные
func (r *Repository) GetLine(ctx context.Context, lineID int64) (*domain.BookingLine, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(lineColumns...).
		From("booking_lines").
		Where(squirrel.Eq{"id": lineID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetLine - build select query: %v", ErrBuildQuery, err)
	}

	line, err := scanLine(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrLineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetLine - scan line: %v", ErrScanRow, err)
	}

	return line, nil
}

// ListLines возвращает неудаленные строки бронирования, новые первыми
func (r *Repository) ListLines(ctx context.Context, bookingID int64) ([]*domain.BookingLine, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(lineColumns...).
		From("booking_lines").
		Where(squirrel.Eq{"booking_id": bookingID, "deleted_at": nil}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListLines - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListLines - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	lines := make([]*domain.BookingLine, 0)
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListLines - scan line: %v", ErrScanRow, err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListLines - rows iteration: %v", ErrScanRow, err)
	}

	return lines, nil
}

// CountActiveLines считает неудаленные строки бронирования
func (r *Repository) CountActiveLines(ctx context.Context, bookingID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("booking_lines").
		Where(squirrel.Eq{"booking_id": bookingID, "deleted_at": nil}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveLines - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveLines - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// SoftDeleteLine помечает строку удаленной
func (r *Repository) SoftDeleteLine(ctx context.Context, lineID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_lines").
		Set("deleted_at", squirrel.Expr("now()")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": lineID, "deleted_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SoftDeleteLine - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "SoftDeleteLine", query, args, ErrLineNotFound)
}

// AggregateLines считает сумму price*qty и число различных валют по неудаленным строкам
func (r *Repository) AggregateLines(ctx context.Context, bookingID int64) (*LineAggregate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"COALESCE(SUM(price * qty), 0)::numeric(12,2)",
		"COUNT(DISTINCT currency)",
		"MIN(currency)",
	).
		From("booking_lines").
		Where(squirrel.Eq{"booking_id": bookingID, "deleted_at": nil}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AggregateLines - build select query: %v", ErrBuildQuery, err)
	}

	var agg LineAggregate
	var currency sql.NullString
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&agg.Total, &agg.CurrencyCount, &currency); err != nil {
		return nil, fmt.Errorf("%w: AggregateLines - scan aggregate: %v", ErrScanRow, err)
	}
	if currency.Valid {
		agg.Currency = &currency.String
	}

	return &agg, nil
}

// ListLineFacilityIDs возвращает объекты, к площадкам которых относятся неудаленные строки
func (r *Repository) ListLineFacilityIDs(ctx context.Context, bookingID int64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT p.facility_id").
		From("booking_lines bl").
		Join("places p ON p.id = bl.place_id").
		Where(squirrel.Eq{"bl.booking_id": bookingID, "bl.deleted_at": nil}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListLineFacilityIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListLineFacilityIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListLineFacilityIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListLineFacilityIDs - rows iteration: %v", ErrScanRow, err)
	}

	return ids, nil
}

func scanLine(row rowScanner) (*domain.BookingLine, error) {
	var line domain.BookingLine
	var details []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&line.ID,
		&line.BookingID,
		&line.PlaceID,
		&line.TeacherID,
		&line.CourseSessionID,
		&line.Slot.Start,
		&line.Slot.End,
		&line.Qty,
		&line.Price,
		&line.Currency,
		&line.PricingProfileID,
		pq.Array(&line.AppliedRuleIDs),
		&details,
		&createdAt,
		&updatedAt,
		&line.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(details) > 0 {
		if err := json.Unmarshal(details, &line.PricingDetails); err != nil {
			return nil, fmt.Errorf("decode pricing details: %w", err)
		}
	}

	line.CreatedAt = createdAt.Time
	line.UpdatedAt = updatedAt.Time

	return &line, nil
}

// ListOccupiedSlots возвращает слоты неудаленных строк площадки без курса,
// пересекающиеся с [from, to). Такие строки делят площадку исключающим ограничением.
func (r *Repository) ListOccupiedSlots(ctx context.Context, placeID int64, from, to time.Time) ([]domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("lower(bl.slot)", "upper(bl.slot)").
		From("booking_lines bl").
		Join("bookings b ON b.id = bl.booking_id").
		Where(squirrel.Eq{
			"bl.place_id":          placeID,
			"bl.deleted_at":        nil,
			"bl.course_session_id": nil,
			"b.deleted_at":         nil,
		}).
		Where("bl.slot && tstzrange(?, ?, '[)')", from, to).
		OrderBy("lower(bl.slot)").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOccupiedSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOccupiedSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]domain.Slot, 0)
	for rows.Next() {
		var slot domain.Slot
		if err := rows.Scan(&slot.Start, &slot.End); err != nil {
			return nil, fmt.Errorf("%w: ListOccupiedSlots - scan slot: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOccupiedSlots - rows iteration: %v", ErrScanRow, err)
	}

	return slots, nil
}
