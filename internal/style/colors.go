package style

import (
	"errors"
	"fmt"
	"strings"
)

// Slot is one of the three independently colorable regions.
type Slot string

const (
	SlotHair   Slot = "hair"
	SlotTop    Slot = "top"
	SlotBottom Slot = "bottom"
)

// ErrUnknownSlot is returned by ParseSlot for anything but hair/top/bottom.
var ErrUnknownSlot = errors.New("unknown color slot")

// ParseSlot converts user input into a Slot.
func ParseSlot(s string) (Slot, error) {
	switch Slot(strings.ToLower(strings.TrimSpace(s))) {
	case SlotHair:
		return SlotHair, nil
	case SlotTop:
		return SlotTop, nil
	case SlotBottom:
		return SlotBottom, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSlot, s)
}

// Selection is the chosen color per slot. The empty string means unset.
// Values are stored verbatim, palette membership is not checked.
type Selection struct {
	Hair   string `json:"hairColor,omitempty"`
	Top    string `json:"topColor,omitempty"`
	Bottom string `json:"bottomColor,omitempty"`
}

// Get returns the value held by slot.
func (s Selection) Get(slot Slot) string {
	switch slot {
	case SlotHair:
		return s.Hair
	case SlotTop:
		return s.Top
	case SlotBottom:
		return s.Bottom
	}
	return ""
}

// Select sets slot to value, or clears it when it already holds value.
func (s Selection) Select(slot Slot, value string) Selection {
	if s.Get(slot) == value {
		value = ""
	}
	return s.set(slot, value)
}

// Clear unsets a single slot.
func (s Selection) Clear(slot Slot) Selection {
	return s.set(slot, "")
}

func (s Selection) set(slot Slot, value string) Selection {
	switch slot {
	case SlotHair:
		s.Hair = value
	case SlotTop:
		s.Top = value
	case SlotBottom:
		s.Bottom = value
	}
	return s
}
