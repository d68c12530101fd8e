package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NotDeleted filters out tombstoned rows
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// Query starts a read on model that already excludes tombstoned rows.
// Every repository read goes through here. A transaction bound to ctx
// by TxManager is used when present.
func Query(ctx context.Context, db *gorm.DB, model any) *gorm.DB {
	return NotDeleted(dbFor(ctx, db).Model(model))
}

// SoftDelete sets the tombstone on the row with the given id.
// Returns shared.ErrNotFound when no live row matched.
func SoftDelete(ctx context.Context, db *gorm.DB, model any, id uuid.UUID) error {
	now := time.Now()
	result := dbFor(ctx, db).Model(model).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{
			"is_deleted": true,
			"deleted_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("soft delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// paginate applies ordering and paging from a shared.Filter
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultSort string) *gorm.DB {
	sortField := ValidateSortField(filter.OrderBy, allowed, defaultSort)
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// notFound maps gorm's missing-row error to the domain error
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// searchAny matches term case-insensitively against any of cols.
// LOWER/LIKE keeps it portable across postgres and sqlite.
func searchAny(query *gorm.DB, term string, cols ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(cols) == 0 {
		return query
	}
	like := "%" + strings.ToLower(term) + "%"
	conds := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		conds[i] = "LOWER(" + c + ") LIKE ?"
		args[i] = like
	}
	return query.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// sumColumn returns SUM(col) over query, zero when no rows matched
func sumColumn(query *gorm.DB, col string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := query.Select("COALESCE(SUM(" + col + "), 0)").Row().Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum %s: %w", col, err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
