package services

import "testing"

func TestComputePing(t *testing.T) {
	tests := []struct {
		name          string
		position      float64
		duration      float64
		wantPosition  float64
		wantDuration  float64
		wantPercent   int
		wantCompleted bool
		wantErr       bool
	}{
		{name: "halfway", position: 150, duration: 300, wantPosition: 150, wantDuration: 300, wantPercent: 50},
		{name: "zero duration", position: 10, duration: 0, wantPosition: 0, wantDuration: 0, wantPercent: 0},
		{name: "position past duration clamps", position: 500, duration: 300, wantPosition: 300, wantDuration: 300, wantPercent: 100, wantCompleted: true},
		{name: "duration capped at 24h", position: 100, duration: 200000, wantPosition: 100, wantDuration: 86400, wantPercent: 0},
		{name: "rounding", position: 100, duration: 300, wantPosition: 100, wantDuration: 300, wantPercent: 33},
		{name: "auto-complete at 95", position: 285, duration: 300, wantPosition: 300, wantDuration: 300, wantPercent: 100, wantCompleted: true},
		{name: "94 percent stays open", position: 282, duration: 300, wantPosition: 282, wantDuration: 300, wantPercent: 94},
		{name: "negative position", position: -1, duration: 300, wantErr: true},
		{name: "negative duration", position: 0, duration: -5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			position, duration, percent, completed, err := computePing(tt.position, tt.duration)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if position != tt.wantPosition {
				t.Fatalf("position = %v, want %v", position, tt.wantPosition)
			}
			if duration != tt.wantDuration {
				t.Fatalf("duration = %v, want %v", duration, tt.wantDuration)
			}
			if percent != tt.wantPercent {
				t.Fatalf("percent = %d, want %d", percent, tt.wantPercent)
			}
			if completed != tt.wantCompleted {
				t.Fatalf("completed = %v, want %v", completed, tt.wantCompleted)
			}
		})
	}
}
