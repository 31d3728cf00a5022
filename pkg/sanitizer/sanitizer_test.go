package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Corolla", "Corolla"},
		{"surrounding whitespace", "  Corolla  ", "Corolla"},
		{"internal run", "Toyota   Corolla", "Toyota Corolla"},
		{"tabs and newlines", "Toyota\t\nCorolla", "Toyota Corolla"},
		{"whitespace only", " \t ", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Jane@Gmail.com", "jane@gmail.com"},
		{"  JANE@GMAIL.COM  ", "jane@gmail.com"},
		{"jane@gmail.com", "jane@gmail.com"},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already e164", "+15550102030", "+15550102030"},
		{"spaced international", "+1 555-010-2030", "+15550102030"},
		{"national with punctuation", "(555) 010-2030 ", "+15550102030"},
		{"empty", "", ""},
		{"whitespace only", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Different renderings of the same number must collapse to a single stored
// form, otherwise lookups against users and driver contacts diverge.
func TestNormalizePhoneCollapsesEquivalentForms(t *testing.T) {
	forms := []string{"+1 555-010-2030", "(555) 010-2030 ", "+15550102030"}

	seen := make(map[string]struct{})
	for _, f := range forms {
		seen[NormalizePhone(f)] = struct{}{}
	}
	if len(seen) != 1 {
		t.Errorf("expected one normalized form, got %d: %v", len(seen), seen)
	}
}

func TestPipelineOrder(t *testing.T) {
	p := Pipeline{
		func(s string) string { return s + "b" },
		func(s string) string { return s + "c" },
	}
	if got := p.Apply("a"); got != "abc" {
		t.Errorf("Pipeline.Apply = %q, want %q", got, "abc")
	}
}
