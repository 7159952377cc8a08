package status

import "testing"

func TestIsValid(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"ACTIVE", true},
		{"TRIAL", true},
		{"SUSPENDED", true},
		{"INACTIVE", true},
		{"active", false},
		{"", false},
		{"ARCHIVED", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValid(tt.input); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  suspended "); got != Suspended {
		t.Errorf("Normalize = %q, want %q", got, Suspended)
	}
}

func TestIsServing(t *testing.T) {
	for _, s := range []string{Active, Trial} {
		if !IsServing(s) {
			t.Errorf("expected %s to be serving", s)
		}
	}
	for _, s := range []string{Suspended, Inactive, ""} {
		if IsServing(s) {
			t.Errorf("expected %q to not be serving", s)
		}
	}
}
