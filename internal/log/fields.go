package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldExpenseID   = "expense_id"
	FieldUserID      = "user_id"
	FieldVehicleID   = "vehicle_id"
	FieldFuelLogID   = "fuel_log_id"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
	FieldStore       = "store"
	FieldWeek        = "week_identifier"
	FieldPeriodFrom  = "period_from"
	FieldPeriodTo    = "period_to"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentExpense = "expense"
	ComponentTrace   = "trace"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpReport   = "report"
	OpExport   = "export"
	OpReindex  = "reindex"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
