package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldAccount   = "account"
	FieldError     = "error"
	FieldMessageID = "message_id"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentTelegram = "telegram"
)
