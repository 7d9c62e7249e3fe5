package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldCallSID   = "call_sid"
	FieldSubject   = "subject"
	FieldPhone     = "phone" // always masked, see MaskPhone

	// Call flow fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldStage     = "stage"
	FieldDigit     = "digit"
	FieldLanguage  = "language"

	// Dispatch fields
	FieldProvider   = "provider"
	FieldCallStatus = "call_status"
	FieldDurationS  = "duration_s"

	// Collaborator fields
	FieldScheme   = "scheme"
	FieldSchemes  = "schemes"
	FieldFallback = "fallback"
)

// MaskPhone redacts a phone number for logging, keeping country code and the
// last two digits.
func MaskPhone(phone string) string {
	if len(phone) < 6 {
		return "***"
	}
	return phone[:3] + "*****" + phone[len(phone)-2:]
}
