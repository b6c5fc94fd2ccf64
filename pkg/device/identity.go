package device

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ID is the opaque 128-bit identifier minted at accept time. It carries no
// device semantics and is stable only for the session's lifetime; a device
// that reconnects gets a new ID but keeps the same Serial.
type ID uuid.UUID

// NewID mints a fresh session-scoped device id.
func NewID() ID {
	return ID(uuid.New())
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether id is the zero value.
func (id ID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

const maxSerialLen = 64

var serialPattern = regexp.MustCompile(`^[A-Za-z0-9:_-]+$`)

// Serial is a validated hardware serial. It identifies a device across
// reconnections and uniquely indexes a device record in the name store.
type Serial string

// ParseSerial validates and normalizes a raw serial string: at most 64
// characters drawn from [A-Za-z0-9:_-], lowercased.
func ParseSerial(raw string) (Serial, error) {
	if raw == "" {
		return "", newInvalidArgument("serial must not be empty")
	}
	if len(raw) > maxSerialLen {
		return "", newInvalidArgument("serial exceeds 64 characters")
	}
	if !serialPattern.MatchString(raw) {
		return "", newInvalidArgument("serial contains invalid characters")
	}
	return Serial(strings.ToLower(raw)), nil
}

func (s Serial) String() string { return string(s) }

var packageSegment = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// PackageName is a validated reverse-DNS Android package identifier, e.g.
// "com.studio.beatsaber".
type PackageName string

// ParsePackageName validates a raw package string: at least two dot-segments,
// each matching [A-Za-z][A-Za-z0-9_]*.
func ParsePackageName(raw string) (PackageName, error) {
	segments := strings.Split(raw, ".")
	if len(segments) < 2 {
		return "", newInvalidArgument("package name must have at least two dot-segments")
	}
	for _, seg := range segments {
		if !packageSegment.MatchString(seg) {
			return "", newInvalidArgument("package segment is invalid: " + seg)
		}
	}
	return PackageName(raw), nil
}

func (p PackageName) String() string { return string(p) }
