package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldScope       = "scope"
	FieldUserID      = "user_id"
	FieldProjectID   = "project_id"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldDescription = "description"
	FieldAmountCents = "amount_cents"
	FieldKind        = "kind"
	FieldTemplateID  = "template_id"
	FieldSeriesID    = "series_id"
	FieldCount       = "count"
	FieldRegions     = "regions"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentHTTP        = "http"
	ComponentStorage     = "storage"
	ComponentAMQP        = "amqp"
	ComponentWorker      = "worker"
	ComponentReconciler  = "reconciler"
	ComponentInstallment = "installment"
	ComponentTransaction = "transaction"
	ComponentCache       = "cache"
	ComponentRateLimit   = "rate_limit"
	ComponentTrace       = "trace"
)

// Operations defines standard operation names
const (
	OpCreate    = "create"
	OpRead      = "read"
	OpDelete    = "delete"
	OpList      = "list"
	OpReconcile = "reconcile"
	OpMaterialize = "materialize"
	OpInvalidate  = "invalidate"
	OpStartup     = "startup"
	OpShutdown    = "shutdown"
)
