package domain

import "testing"

func TestAggregateStatus(t *testing.T) {
	tests := []struct {
		name     string
		children []Status
		want     Status
	}{
		{"empty", nil, NotRun},
		{"all not run", []Status{NotRun, NotRun}, NotRun},
		{"any failed wins", []Status{Passed, Failed, Running}, Failed},
		{"any running wins over passed", []Status{Passed, Running}, Running},
		{"any passed with no fail/running", []Status{Passed, Skipped}, Passed},
		{"all skipped", []Status{Skipped, Skipped}, Skipped},
		{"skipped mixed with not run", []Status{Skipped, NotRun}, NotRun},
		{"single passed", []Status{Passed}, Passed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateStatus(tt.children)
			if got != tt.want {
				t.Errorf("AggregateStatus(%v) = %v, want %v", tt.children, got, tt.want)
			}
		})
	}
}
