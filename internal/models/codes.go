package models

// QrCheckStatusCode is the kind of check action recorded in the log.
type QrCheckStatusCode string

const (
	StatusEntry QrCheckStatusCode = "ENTRY"
	StatusExit  QrCheckStatusCode = "EXIT"
)

// QrActionCode records how a check action was performed.
type QrActionCode string

const (
	ActionCheckedIn       QrActionCode = "CHECKED_IN"
	ActionManualCheckedIn QrActionCode = "MANUAL_CHECKED_IN"
	ActionCheckedOut      QrActionCode = "CHECKED_OUT"
	ActionForceCheckedIn  QrActionCode = "FORCE_CHECKED_IN"
	ActionForceCheckedOut QrActionCode = "FORCE_CHECKED_OUT"
)

// CodeType distinguishes a scanned QR token from a typed fallback code.
type CodeType string

const (
	CodeTypeQR     CodeType = "QR"
	CodeTypeManual CodeType = "MANUAL"
)

// AttendeeType distinguishes the purchaser from invited guests.
type AttendeeType string

const (
	AttendeePrimary AttendeeType = "PRIMARY"
	AttendeeGuest   AttendeeType = "GUEST"
)
