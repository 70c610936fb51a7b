package ui

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"  React  ", 10, "React"},
		{"Backbone", 0, "Backbone"},
		{"Backbone", 6, "Bac..."},
		{"Backbone", 3, "Bac"},
		{"Ação", 4, "Ação"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	if got := truncateMiddle("abcd", 2); got != "ab" {
		t.Fatalf("truncateMiddle limit<=3 = %q, want ab", got)
	}
	got := truncateMiddle("/home/user/.local/state/shelf/shelf.log", 20)
	if len([]rune(got)) > 20 {
		t.Fatalf("got %q (%d runes), want <=20", got, len([]rune(got)))
	}
	if got[len(got)-4:] != ".log" {
		t.Fatalf("truncateMiddle dropped the extension: %q", got)
	}
}

func TestPadRightAndOrAll(t *testing.T) {
	if got := padRight("Vue", 5); got != "Vue  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("Angular", 3); got != "Angular" {
		t.Fatalf("padRight longer = %q", got)
	}
	if orAll("") != "All" || orAll("Web") != "Web" {
		t.Fatalf("orAll mismatch")
	}
}
