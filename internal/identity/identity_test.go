package identity

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "José", want: "jose"},
		{in: "  MARÍA  ", want: "maria"},
		{in: "nicolás", want: "nicolas"},
		{in: "Bob", want: "bob"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	r := NewResolver([]Member{
		{ID: "u1", DisplayName: "José"},
		{ID: "u2", DisplayName: "María"},
	})

	tests := []struct {
		name   string
		wantID string
		wantOK bool
	}{
		{name: "u1", wantID: "u1", wantOK: true},   // exact identity
		{name: "José", wantID: "u1", wantOK: true}, // exact display name
		{name: "jose", wantID: "u1", wantOK: true}, // normalized
		{name: " MARIA ", wantID: "u2", wantOK: true},
		{name: "Bob", wantOK: false},
		{name: "", wantOK: false},
	}

	for _, tt := range tests {
		id, ok := r.Resolve(tt.name)
		if ok != tt.wantOK || id != tt.wantID {
			t.Errorf("Resolve(%q) = (%q, %v), want (%q, %v)", tt.name, id, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestResolveParticipantSelfAlias(t *testing.T) {
	r := NewResolver([]Member{{ID: "u1", DisplayName: "José"}})

	id, ok := r.ResolveParticipant("Yo", "u1")
	if !ok || id != "u1" {
		t.Errorf("self alias should resolve to the owner, got (%q, %v)", id, ok)
	}

	// The alias is matched after normalization too.
	id, ok = r.ResolveParticipant(" yo ", "u2")
	if !ok || id != "u2" {
		t.Errorf("self alias resolves to the owner even when the owner is not a member, got (%q, %v)", id, ok)
	}

	if _, ok := r.ResolveParticipant("Yo", ""); ok {
		t.Error("self alias with no owner must not resolve")
	}

	// Non-alias names still go through the normal lookup.
	id, ok = r.ResolveParticipant("jose", "u9")
	if !ok || id != "u1" {
		t.Errorf("ResolveParticipant(jose) = (%q, %v), want (u1, true)", id, ok)
	}
}

func TestLabel(t *testing.T) {
	r := NewResolver([]Member{
		{ID: "u1", DisplayName: "José"},
		{ID: "u2", DisplayName: "María"},
	})

	if got := r.Label("u1", "u1"); got != SelfLabel {
		t.Errorf("viewer's own label = %q, want %q", got, SelfLabel)
	}
	if got := r.Label("u2", "u1"); got != "María" {
		t.Errorf("Label(u2) = %q, want María", got)
	}
	if got := r.Label("ghost", "u1"); got != "ghost" {
		t.Errorf("unknown identity label = %q, want raw key", got)
	}
}
