package entity

import "time"

// Etiquetas de acción del registro de auditoría.
const (
	ActionSystemStartup          = "System Startup"
	ActionUserLogin              = "User Login"
	ActionUserLogout             = "User Logout"
	ActionPredictionStarted      = "Prediction Started"
	ActionPredictionSuccessful   = "Prediction Successful"
	ActionPredictionFailed       = "Prediction Failed"
	ActionPricePredictionStarted = "Price Prediction Started"
	ActionPricePredictionOK      = "Price Prediction Successful"
	ActionPricePredictionFailed  = "Price Prediction Failed"
	ActionAlertAcknowledged      = "Alert Acknowledged"
	ActionProductAdded           = "Product Added"
	ActionProductEdited          = "Product Edited"
	ActionProductDeleted         = "Product Deleted"
	ActionUserCreated            = "User Created"
	ActionUserDeleted            = "User Deleted"
	ActionStockReceived          = "Stock Received"
	ActionStockConsumed          = "Stock Consumed"
	ActionStockAdjusted          = "Stock Adjusted"
	ActionStockTransferred       = "Stock Transferred"
	ActionSupplierAdded          = "Supplier Added"
	ActionSupplierEdited         = "Supplier Edited"
	ActionSupplierDeleted        = "Supplier Deleted"
	ActionBranchAdded            = "Branch Added"
	ActionBranchEdited           = "Branch Edited"
	ActionBranchDeleted          = "Branch Deleted"
	ActionReorderPrepared        = "Reorder Prepared"
)

// AuditLog registro inmutable de una acción. Solo se agrega, nunca se edita ni borra.
type AuditLog struct {
	ID        string    `json:"id" db:"id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Action    string    `json:"action" db:"action"`
	Details   string    `json:"details" db:"details"`
	ProductID string    `json:"product_id,omitempty" db:"product_id"`
	BranchID  string    `json:"branch_id,omitempty" db:"branch_id"`
	UserID    string    `json:"user_id,omitempty" db:"user_id"`
}
