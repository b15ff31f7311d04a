package policy

// Clippy returns the built-in clippy target: the strict warning categories
// elevated to errors, with five individual rules carved out as exceptions.
func Clippy() Policy {
	return Policy{
		Name: "clippy",
		Tool: []string{"cargo", "clippy"},
	}.Deny(
		"clippy::all",
		"clippy::pedantic",
		"clippy::cargo",
		"clippy::nursery",
	).Allow(
		"clippy::multiple_crate_versions",
		"clippy::future_not_send",
		"clippy::missing_panics_doc",
		"clippy::missing_errors_doc",
		"clippy::significant_drop_tightening",
	)
}

// builtins maps target names to their policy constructors.
var builtins = map[string]func() Policy{
	"clippy": Clippy,
}

// Lookup returns the built-in policy for a target name.
func Lookup(name string) (Policy, bool) {
	ctor, ok := builtins[name]
	if !ok {
		return Policy{}, false
	}
	return ctor(), true
}

// Targets returns the names of all built-in targets.
func Targets() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	return names
}
