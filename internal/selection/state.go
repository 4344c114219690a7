package selection

import "fmt"

// Validation is the indicator shown next to the draft endpoint.
type Validation int

const (
	// ValidationUnknown is neutral: not yet checked or not URL-shaped.
	ValidationUnknown Validation = iota

	// ValidationValid means the last probe for the draft answered below 400.
	ValidationValid

	// ValidationInvalid means the last probe for the draft failed.
	ValidationInvalid
)

// String returns the lowercase name of v.
func (v Validation) String() string {
	switch v {
	case ValidationValid:
		return "valid"
	case ValidationInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Validation) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// State is the position of a selection session in its lifecycle.
type State int

const (
	StateEmpty State = iota
	StateEditing
	StateChecking
	StateValid
	StateInvalid
)

// String returns the lowercase name of s.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateEditing:
		return "editing"
	case StateChecking:
		return "checking"
	case StateValid:
		return "valid"
	case StateInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Validation projects s onto the indicator. Only a finished probe is
// ever shown as valid or invalid.
func (s State) Validation() Validation {
	switch s {
	case StateValid:
		return ValidationValid
	case StateInvalid:
		return ValidationInvalid
	default:
		return ValidationUnknown
	}
}

// Snapshot is a point-in-time copy of a session.
type Snapshot struct {
	Draft      string     `json:"draft"`
	State      State      `json:"state"`
	Validation Validation `json:"validation"`

	// Closed is true once the session was confirmed or dismissed
	Closed bool `json:"closed"`

	// Resolved is the confirmed endpoint; empty when dismissed or still open
	Resolved string `json:"resolved,omitempty"`
}
