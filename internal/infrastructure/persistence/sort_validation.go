package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// withCommon adds id, created_at and updated_at to a whitelist
func withCommon(fields ...string) map[string]bool {
	m := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
	}
	for _, f := range fields {
		m[f] = true
	}
	return m
}

var (
	ApartmentSortFields    = withCommon("name", "city", "district", "total_flats")
	FlatSortFields         = withCommon("flat_number", "floor", "type", "occupancy_status", "block_id")
	ResidentSortFields     = withCommon("first_name", "last_name", "move_in_date", "type", "is_active")
	DueSortFields          = withCommon("due_date", "amount", "status", "year", "month", "paid_amount", "late_fee")
	PaymentSortFields      = withCommon("payment_date", "amount", "payment_method", "receipt_number")
	ExpenseSortFields      = withCommon("expense_date", "amount", "category", "status", "vendor")
	IncomeSortFields       = withCommon("income_date", "amount", "category")
	AuditLogSortFields     = map[string]bool{"timestamp": true, "action": true, "entity_type": true, "user_email": true}
	NotificationSortFields = withCommon("type", "is_read")
)
