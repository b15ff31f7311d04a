package policy

import (
	"fmt"
	"slices"
)

// Entry is a single (rule-or-category name, action) pair.
type Entry struct {
	// Name identifies a rule category or an individual rule.
	Name string `json:"name"`

	// Action is deny (escalate to error) or allow (suppress).
	Action Action `json:"action"`
}

// Policy is an ordered rule selection set together with the external tool
// it is forwarded to. The set is fixed at construction and read once per
// invocation; this layer defines no precedence logic of its own.
type Policy struct {
	// Name identifies the policy target (e.g. "clippy").
	Name string `json:"name"`

	// Tool is the argv prefix of the external static-analysis tool.
	Tool []string `json:"tool"`

	// Entries are forwarded to the tool in the order listed.
	Entries []Entry `json:"entries"`
}

// Deny appends a deny entry and returns the policy for chaining.
func (p Policy) Deny(names ...string) Policy {
	for _, n := range names {
		p.Entries = append(p.Entries, Entry{Name: n, Action: ActionDeny})
	}
	return p
}

// Allow appends an allow entry and returns the policy for chaining.
func (p Policy) Allow(names ...string) Policy {
	for _, n := range names {
		p.Entries = append(p.Entries, Entry{Name: n, Action: ActionAllow})
	}
	return p
}

// Validate checks the policy for authoring errors: an empty tool, empty
// rule names, or a name listed under both deny and allow. Listing the same
// name twice with the same action is permitted; the external tool's own
// precedence rules apply in that case.
func (p Policy) Validate() error {
	if len(p.Tool) == 0 || p.Tool[0] == "" {
		return fmt.Errorf("policy %q: tool command is empty", p.Name)
	}

	seen := make(map[string]Action, len(p.Entries))
	for _, e := range p.Entries {
		if e.Name == "" {
			return fmt.Errorf("policy %q: entry with empty rule name", p.Name)
		}
		if prev, ok := seen[e.Name]; ok && prev != e.Action {
			return fmt.Errorf("policy %q: rule %q listed as both %s and %s",
				p.Name, e.Name, prev, e.Action)
		}
		seen[e.Name] = e.Action
	}
	return nil
}

// Args renders the entries as tool flags, in the order listed:
// deny entries as elevation flags, allow entries as suppression flags.
func (p Policy) Args() []string {
	args := make([]string, 0, 2*len(p.Entries))
	for _, e := range p.Entries {
		args = append(args, e.Action.Flag(), e.Name)
	}
	return args
}

// Command composes the full argv for one invocation: the tool prefix, any
// extra user arguments, a "--" separator, then the rendered entry flags.
func (p Policy) Command(extra ...string) []string {
	argv := slices.Clone(p.Tool)
	argv = append(argv, extra...)
	if len(p.Entries) > 0 {
		argv = append(argv, "--")
		argv = append(argv, p.Args()...)
	}
	return argv
}

// DenyNames returns the names of all deny entries, in order.
func (p Policy) DenyNames() []string {
	return p.names(ActionDeny)
}

// AllowNames returns the names of all allow entries, in order.
func (p Policy) AllowNames() []string {
	return p.names(ActionAllow)
}

func (p Policy) names(action Action) []string {
	var out []string
	for _, e := range p.Entries {
		if e.Action == action {
			out = append(out, e.Name)
		}
	}
	return out
}
