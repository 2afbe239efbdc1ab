package docweaver

import (
	"fmt"
	"strings"
)

// UnknownTagPolicy decides what happens to an element with no render rule.
type UnknownTagPolicy int

const (
	UnknownError  UnknownTagPolicy = iota // abort the conversion
	UnknownWarn                           // report to the warning sink, render nothing
	UnknownAccept                         // render nothing, silently
)

// String returns the configuration spelling of the policy.
func (p UnknownTagPolicy) String() string {
	switch p {
	case UnknownError:
		return "error"
	case UnknownWarn:
		return "warn"
	case UnknownAccept:
		return "accept"
	default:
		return fmt.Sprintf("UnknownTagPolicy(%d)", int(p))
	}
}

// ParseUnknownTagPolicy accepts "error", "warn" (or "warning") and "accept",
// case-insensitively.
func ParseUnknownTagPolicy(s string) (UnknownTagPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return UnknownError, nil
	case "warn", "warning":
		return UnknownWarn, nil
	case "accept":
		return UnknownAccept, nil
	default:
		return UnknownError, fmt.Errorf("unknown tag policy %q: want error, warn or accept", s)
	}
}
