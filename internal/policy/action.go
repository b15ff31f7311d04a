// Package policy models the rule selection set passed to an external
// static-analysis tool: an ordered list of (rule name, action) pairs where
// deny escalates a rule to a build-breaking error and allow suppresses it.
package policy

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Action is the policy action applied to a rule category or individual rule.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver per json.Unmarshaler interface
type Action int

const (
	// ActionDeny escalates the rule to a build-breaking error.
	ActionDeny Action = iota
	// ActionAllow suppresses a rule that would otherwise be active
	// under a broader denied category.
	ActionAllow
)

// String returns the string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionDeny:
		return "deny"
	case ActionAllow:
		return "allow"
	default:
		return "unknown"
	}
}

// Flag returns the flag used to forward the action to the external tool.
func (a Action) Flag() string {
	if a == ActionAllow {
		return "-A"
	}
	return "-D"
}

// MarshalJSON implements json.Marshaler.
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON implements json.Unmarshaler.
// Pointer receiver required by json.Unmarshaler interface.
func (a *Action) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseAction(str)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAction parses an action string into an Action value.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(s) {
	case "deny":
		return ActionDeny, nil
	case "allow":
		return ActionAllow, nil
	default:
		return ActionDeny, fmt.Errorf("unknown action: %q", s)
	}
}
