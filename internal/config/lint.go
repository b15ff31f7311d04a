package config

import (
	"fmt"

	"github.com/probelab/pingmon/internal/policy"
)

// ResolvePolicy materializes the lint policy from config: the named built-in
// target, with the tool and rule selection set replaced by any overrides.
func (c *LintConfig) ResolvePolicy() (policy.Policy, error) {
	name := c.Target
	if name == "" {
		name = "clippy"
	}

	p, ok := policy.Lookup(name)
	if !ok {
		return policy.Policy{}, fmt.Errorf("unknown lint target %q (built-in: %v)",
			name, policy.Targets())
	}

	if len(c.Tool) > 0 {
		p.Tool = append([]string(nil), c.Tool...)
	}
	if len(c.Deny) > 0 || len(c.Allow) > 0 {
		p.Entries = nil
		p = p.Deny(c.Deny...).Allow(c.Allow...)
	}

	if err := p.Validate(); err != nil {
		return policy.Policy{}, err
	}
	return p, nil
}
