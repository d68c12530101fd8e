// Package models contains GORM persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Every table carries the tombstone columns from SoftDeleteModel. Rows are never
// purged; repositories read through persistence.Query, which filters them.
//
// Structure:
//   - base.go: BaseModel, AggregateModel and the tombstone columns
//   - residence.go: apartments, blocks, flats, residents
//   - dues.go: dues and the append-only payment ledger
//   - finance.go: expenses and incomes
//   - audit.go: audit_logs
//   - notification.go: notifications
//   - identity.go: admin_users
package models

// All returns every persistence model, in dependency order, for AutoMigrate
// on development databases. Production schemas come from migrations/.
func All() []any {
	return []any{
		&ApartmentModel{},
		&BlockModel{},
		&FlatModel{},
		&ResidentModel{},
		&DueModel{},
		&PaymentModel{},
		&ExpenseModel{},
		&IncomeModel{},
		&AuditLogModel{},
		&NotificationModel{},
		&AdminUserModel{},
	}
}
