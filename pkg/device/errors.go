package device

// DomainError is a business-rule violation raised by the device model or the
// session/command layers built on top of it — as opposed to an infrastructure
// error (socket failure, disk error).
type DomainError struct {
	Code    ErrorCode
	Message string
	Serial  string
}

func (e *DomainError) Error() string {
	if e.Serial != "" {
		return e.Message + ": " + e.Serial
	}
	return e.Message
}

// ErrorCode categorizes a DomainError.
type ErrorCode int

const (
	// ErrInvalidArgument indicates a malformed Serial, PackageName, or an
	// out-of-range field (battery level, volume bounds).
	ErrInvalidArgument ErrorCode = iota

	// ErrDeviceNotFound indicates the device registry has no record for
	// the requested DeviceId.
	ErrDeviceNotFound

	// ErrDeviceDisconnected indicates the session registry has no live
	// session for a device that still has a registry record.
	ErrDeviceDisconnected

	// ErrValidationFailed indicates a Command failed its own validate().
	ErrValidationFailed
)

func newInvalidArgument(message string) *DomainError {
	return &DomainError{Code: ErrInvalidArgument, Message: message}
}

// NewDeviceNotFoundError reports that no device record exists for an id.
func NewDeviceNotFoundError(serial string) *DomainError {
	return &DomainError{Code: ErrDeviceNotFound, Message: "device not found", Serial: serial}
}

// NewDeviceDisconnectedError reports a registry record with no live session.
func NewDeviceDisconnectedError(serial string) *DomainError {
	return &DomainError{Code: ErrDeviceDisconnected, Message: "device disconnected", Serial: serial}
}

// NewValidationFailedError reports a Command that failed its own validation.
func NewValidationFailedError(message string) *DomainError {
	return &DomainError{Code: ErrValidationFailed, Message: message}
}
