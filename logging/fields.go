package logging

// Canonical field name constants for structured logging.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldTenant    = "tenant"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldMediaType = "media_type"
	FieldAction    = "action"
	FieldFault     = "fault"
	FieldCode      = "code"
	FieldErrorID   = "error_id"
	FieldStack     = "stack"
)
