package policy

import (
	"encoding/json"
	"testing"
)

func TestAction_String(t *testing.T) {
	tests := []struct {
		a    Action
		want string
	}{
		{ActionDeny, "deny"},
		{ActionAllow, "allow"},
		{Action(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.a.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAction_Flag(t *testing.T) {
	if got := ActionDeny.Flag(); got != "-D" {
		t.Errorf("ActionDeny.Flag() = %q, want %q", got, "-D")
	}
	if got := ActionAllow.Flag(); got != "-A" {
		t.Errorf("ActionAllow.Flag() = %q, want %q", got, "-A")
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		input   string
		want    Action
		wantErr bool
	}{
		{"deny", ActionDeny, false},
		{"allow", ActionAllow, false},
		{"DENY", ActionDeny, false},
		{"Allow", ActionAllow, false},
		{"warn", ActionDeny, true},
		{"", ActionDeny, true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseAction(tc.input)
			if (err != nil) != tc.wantErr {
				t.Errorf("ParseAction error = %v, wantErr %v", err, tc.wantErr)
				return
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("ParseAction = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAction_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(ActionAllow)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != `"allow"` {
		t.Errorf("Marshal = %s, want %q", data, `"allow"`)
	}

	var a Action
	if err := json.Unmarshal([]byte(`"deny"`), &a); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if a != ActionDeny {
		t.Errorf("Unmarshal = %v, want %v", a, ActionDeny)
	}

	if err := json.Unmarshal([]byte(`123`), &a); err == nil {
		t.Error("Unmarshal of non-string should fail")
	}
}
