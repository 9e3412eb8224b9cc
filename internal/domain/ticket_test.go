package domain

import (
	"testing"
	"time"
)

func TestParseTicketStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"Pending", true},
		{"In Progress", true},
		{"Solved", true},
		{"solved", false},
		{"Closed", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if _, ok := ParseTicketStatus(tt.raw); ok != tt.want {
				t.Errorf("ParseTicketStatus(%q) ok = %v, want %v", tt.raw, ok, tt.want)
			}
		})
	}
}

func TestTimestampIsLexicallyOrdered(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	earlier := FormatTimestamp(base)
	later := FormatTimestamp(base.Add(10 * time.Millisecond))
	if !(earlier < later) {
		t.Fatalf("expected %q < %q", earlier, later)
	}
	if len(earlier) != len(later) {
		t.Fatalf("timestamps should be fixed width: %q vs %q", earlier, later)
	}

	parsed, err := ParseTimestamp(later)
	if err != nil {
		t.Fatalf("ParseTimestamp() error = %v", err)
	}
	if !parsed.Equal(base.Add(10 * time.Millisecond)) {
		t.Errorf("ParseTimestamp() = %v", parsed)
	}
}

func TestFormatTimestampConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	got := FormatTimestamp(time.Date(2025, 3, 1, 11, 0, 0, 0, loc))
	if got != "2025-03-01T09:00:00.000Z" {
		t.Errorf("FormatTimestamp() = %q", got)
	}
}

func TestRoleForEmail(t *testing.T) {
	if RoleForEmail("admin@support.com", "admin@support.com") != RoleAdmin {
		t.Error("expected admin role for admin address")
	}
	if RoleForEmail("Admin@support.com", "admin@support.com") != RoleUser {
		t.Error("role match must be exact")
	}
	if RoleForEmail("jane@corp.test", "admin@support.com") != RoleUser {
		t.Error("expected user role")
	}
}
