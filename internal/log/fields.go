package log

// Field names shared by every component, so log queries can rely on one
// spelling per attribute.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldURL        = "url"
	FieldStatus     = "status"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldSaleID     = "sale_id"
	FieldSaleDate   = "date"
	FieldTotalCents = "total_cents"
)

// Component names of the two binaries.
const (
	ComponentApp    = "app"
	ComponentWorker = "worker"
)
