package ui

import (
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"  short  ", 10, "short"},
		{"abcdefghij", 8, "abcde..."},
		{"abcdef", 3, "abc"},
		{"anything", 0, "anything"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestPadding(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padLeft("7", 3); got != "  7" {
		t.Fatalf("padLeft = %q", got)
	}
	if got := padLeft("1234", 3); got != "1234" {
		t.Fatalf("padLeft overflow = %q", got)
	}
}

func TestFormatClock(t *testing.T) {
	if got := formatClock(time.Time{}); got != "never" {
		t.Fatalf("formatClock(zero) = %q", got)
	}
	ts := time.Date(2024, 5, 1, 13, 4, 5, 0, time.Local)
	if got := formatClock(ts); got != "13:04:05" {
		t.Fatalf("formatClock = %q", got)
	}
}

func TestParseCount(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"", 0, true},
		{" 42 ", 42, true},
		{"-1", 0, false},
		{"3.5", 0, false},
		{"many", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseCount(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("parseCount(%q) = %d,%v want %d,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
