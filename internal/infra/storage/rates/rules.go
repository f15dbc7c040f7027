package rates

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-FacilityBooking/pkg/psqlbuilder"
)

var ruleColumns = []string{
	"id",
	"pricing_profile_id",
	"name",
	"priority",
	"override_type",
	"override_value",
	"currency",
	"effective_dates",
	"time_window",
	"weekdays",
	"specific_dates",
	"calendar_flags",
	"recurrence",
	"metadata",
	"is_active",
	"created_at",
	"updated_at",
	"deleted_at",
}

// ListRules возвращает неудаленные правила профилей, упорядоченные по (priority, id).
// activeOnly отбрасывает выключенные правила.
func (r *Repository) ListRules(ctx context.Context, profileIDs []int64, activeOnly bool) ([]*domain.PriceRule, error) {
	if len(profileIDs) == 0 {
		return []*domain.PriceRule{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := squirrel.Eq{"pricing_profile_id": profileIDs, "deleted_at": nil}
	if activeOnly {
		where["is_active"] = true
	}

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("place_price_rules").
		Where(where).
		OrderBy("priority ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListRules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.PriceRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListRules - scan rule: %v", ErrScanRow, err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListRules - rows iteration: %v", ErrScanRow, err)
	}

	return rules, nil
}

// GetRule получает неудаленное правило по ID
func (r *Repository) GetRule(ctx context.Context, id int64) (*domain.PriceRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("place_price_rules").
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetRule - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetRule - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

// CreateRule создает ценовое правило
func (r *Repository) CreateRule(ctx context.Context, rule *domain.PriceRule) (*domain.PriceRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	values, err := ruleValues(rule)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateRule - encode rule: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert("place_price_rules").
		Columns(
			"pricing_profile_id",
			"name",
			"priority",
			"override_type",
			"override_value",
			"currency",
			"effective_dates",
			"time_window",
			"weekdays",
			"specific_dates",
			"calendar_flags",
			"recurrence",
			"metadata",
			"is_active",
		).
		Values(append([]interface{}{rule.PricingProfileID}, values...)...).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateRule - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateRule - execute insert: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

// UpdateRule перезаписывает изменяемые поля правила
func (r *Repository) UpdateRule(ctx context.Context, rule *domain.PriceRule) (*domain.PriceRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	values, err := ruleValues(rule)
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateRule - encode rule: %v", ErrEncode, err)
	}

	columns := []string{
		"name", "priority", "override_type", "override_value", "currency", "effective_dates",
		"time_window", "weekdays", "specific_dates", "calendar_flags", "recurrence", "metadata", "is_active",
	}
	builder := psqlbuilder.Update("place_price_rules")
	for i, column := range columns {
		builder = builder.Set(column, values[i])
	}

	query, args, err := builder.
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": rule.ID, "deleted_at": nil}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateRule - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateRule - execute update: %v", ErrExecQuery, err)
	}

	rule.UpdatedAt = updatedAt.Time
	return rule, nil
}

// SoftDeleteRule помечает правило удаленным
func (r *Repository) SoftDeleteRule(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("place_price_rules").
		Set("deleted_at", squirrel.Expr("now()")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SoftDeleteRule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SoftDeleteRule - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SoftDeleteRule - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// SoftDeleteRulesByProfile помечает удаленными все правила профиля
func (r *Repository) SoftDeleteRulesByProfile(ctx context.Context, profileID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("place_price_rules").
		Set("deleted_at", squirrel.Expr("now()")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"pricing_profile_id": profileID, "deleted_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SoftDeleteRulesByProfile - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SoftDeleteRulesByProfile - execute update: %v", ErrExecQuery, err)
	}
	return nil
}

// ruleValues значения изменяемых колонок правила в порядке ruleColumns[2:15]
func ruleValues(rule *domain.PriceRule) ([]interface{}, error) {
	calendarFlags, err := encodeJSON(rule.CalendarFlags)
	if err != nil {
		return nil, err
	}
	recurrence, err := encodeJSON(rule.Recurrence)
	if err != nil {
		return nil, err
	}
	metadata, err := encodeObject(rule.Metadata)
	if err != nil {
		return nil, err
	}

	var weekdays interface{}
	if rule.Weekdays != nil {
		days := make([]int64, len(rule.Weekdays))
		for i, d := range rule.Weekdays {
			days[i] = int64(d)
		}
		weekdays = pq.Array(days)
	}

	var specificDates interface{}
	if rule.SpecificDates != nil {
		specificDates = pq.Array(rule.SpecificDates)
	}

	return []interface{}{
		rule.Name,
		rule.Priority,
		string(rule.OverrideType),
		rule.OverrideValue,
		rule.Currency,
		rule.EffectiveDates,
		rule.TimeWindow,
		weekdays,
		specificDates,
		calendarFlags,
		recurrence,
		metadata,
		rule.IsActive,
	}, nil
}

func scanRule(row rowScanner) (*domain.PriceRule, error) {
	var rule domain.PriceRule
	var overrideType string
	var weekdays pq.Int64Array
	var specificDates pq.StringArray
	var calendarFlags, recurrence, metadata []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&rule.ID,
		&rule.PricingProfileID,
		&rule.Name,
		&rule.Priority,
		&overrideType,
		&rule.OverrideValue,
		&rule.Currency,
		&rule.EffectiveDates,
		&rule.TimeWindow,
		&weekdays,
		&specificDates,
		&calendarFlags,
		&recurrence,
		&metadata,
		&rule.IsActive,
		&createdAt,
		&updatedAt,
		&rule.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.OverrideType = domain.OverrideType(overrideType)
	if weekdays != nil {
		rule.Weekdays = make([]int, len(weekdays))
		for i, d := range weekdays {
			rule.Weekdays[i] = int(d)
		}
	}
	if specificDates != nil {
		rule.SpecificDates = []string(specificDates)
	}
	if rule.CalendarFlags, err = decodeJSON(calendarFlags); err != nil {
		return nil, fmt.Errorf("decode calendar flags: %w", err)
	}
	if rule.Recurrence, err = decodeJSON(recurrence); err != nil {
		return nil, fmt.Errorf("decode recurrence: %w", err)
	}
	if rule.Metadata, err = decodeJSON(metadata); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return &rule, nil
}
