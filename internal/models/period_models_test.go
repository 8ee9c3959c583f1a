package models

import "testing"

func TestPeriodContainsDate(t *testing.T) {
	p := Period{StartDate: "2026-03-02", EndDate: "2026-03-08"}

	tests := []struct {
		date string
		want bool
	}{
		{"2026-03-01", false},
		{"2026-03-02", true}, // start inclusive
		{"2026-03-05", true},
		{"2026-03-08", true}, // end inclusive
		{"2026-03-09", false},
	}
	for _, tt := range tests {
		if got := p.ContainsDate(tt.date); got != tt.want {
			t.Errorf("ContainsDate(%q) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestPeriodOverlaps(t *testing.T) {
	base := Period{StartDate: "2026-03-02", EndDate: "2026-03-08"}

	tests := []struct {
		name  string
		other Period
		want  bool
	}{
		{"disjoint before", Period{StartDate: "2026-02-23", EndDate: "2026-03-01"}, false},
		{"disjoint after", Period{StartDate: "2026-03-09", EndDate: "2026-03-15"}, false},
		{"shared boundary day", Period{StartDate: "2026-03-08", EndDate: "2026-03-14"}, true},
		{"fully inside", Period{StartDate: "2026-03-03", EndDate: "2026-03-05"}, true},
		{"fully covering", Period{StartDate: "2026-02-01", EndDate: "2026-04-01"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.other.Overlaps(base); got != tt.want {
				t.Errorf("Overlaps (reversed) = %v, want %v", got, tt.want)
			}
		})
	}
}
