package session

import "fmt"

// Status is the generation state shown to the user.
type Status int

const (
	StatusIdle Status = iota
	StatusGenerating
	StatusComplete
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusGenerating:
		return "generating"
	case StatusComplete:
		return "complete"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// MarshalText renders the status by name in JSON views.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status name written by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	for _, st := range []Status{StatusIdle, StatusGenerating, StatusComplete, StatusError} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}
