package model

// The order-management schema (orders, tables, batches) is owned by the
// upstream application. This service only reads the chain
// batch -> order -> table -> waiter to address notifications, so the
// structs below carry just the columns that resolution needs and are
// excluded from automigration.

// Order is a guest's order, placed at one table.
type Order struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	TableID string `gorm:"type:uuid" json:"table_id"`
}

// TableName maps Order onto the upstream orders table.
func (Order) TableName() string { return "orders" }

// Table is a restaurant table with its currently assigned waiter.
// WaiterID is nil while no waiter is assigned, which is a valid business
// state, not a data fault.
type Table struct {
	ID          string  `gorm:"type:uuid;primaryKey" json:"id"`
	TableNumber int     `json:"table_number"`
	WaiterID    *string `gorm:"type:uuid" json:"waiter_id"`
}

// TableName maps Table onto the upstream tables table.
func (Table) TableName() string { return "tables" }

// Batch is a grouped submission of order items sent to the kitchen at one
// time. Its insertion upstream is what triggers a notification.
type Batch struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID string `gorm:"type:uuid" json:"order_id"`
}

// TableName maps Batch onto the upstream order_batches table.
func (Batch) TableName() string { return "order_batches" }
