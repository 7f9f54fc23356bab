package mcumgrclient

import (
	"fmt"
	"strconv"
)

// Options carries per-call overrides layered over the session defaults.
// Keys outside the recognized set are dropped without error so callers
// can pass options a newer mcumgr-client understands but this wrapper
// does not know yet.
type Options map[string]any

type optionType int

const (
	stringOption optionType = iota
	intOption
	boolOption
)

func (t optionType) String() string {
	switch t {
	case stringOption:
		return "string"
	case intOption:
		return "int"
	case boolOption:
		return "bool"
	}
	return "unknown"
}

// recognizedOptions is the whitelist of flags forwarded to
// mcumgr-client, with the value type expected for each.
var recognizedOptions = map[string]optionType{
	"device":             stringOption,
	"slot":               intOption,
	"verbose":            boolOption,
	"initial_timeout":    intOption,
	"subsequent_timeout": intOption,
	"linelength":         intOption,
	"mtu":                intOption,
	"baudrate":           intOption,
}

// formatOption renders a recognized option value as the flag value
// string, or returns an *OptionTypeError when the value's type does not
// match the declared type.
func formatOption(key string, value any) (string, error) {
	want := recognizedOptions[key]
	switch v := value.(type) {
	case string:
		if want == stringOption {
			return v, nil
		}
	case int:
		if want == intOption {
			return strconv.Itoa(v), nil
		}
	case bool:
		if want == boolOption {
			return strconv.FormatBool(v), nil
		}
	}
	return "", &OptionTypeError{
		Key:      key,
		Expected: want.String(),
		Received: fmt.Sprintf("%T", value),
	}
}
