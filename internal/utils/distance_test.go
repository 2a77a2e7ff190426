package utils

import (
	"math"
	"testing"
)

func TestCalculateDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKM                 float64
		tolerance              float64
	}{
		{"same point", 12.9716, 77.5946, 12.9716, 77.5946, 0, 0.001},
		{"bengaluru to chennai", 12.9716, 77.5946, 13.0827, 80.2707, 290, 5},
		{"short hop across the city", 12.9716, 77.5946, 12.9816, 77.5946, 1.11, 0.02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantKM) > tt.tolerance {
				t.Errorf("distance = %v km, want %v ± %v", got, tt.wantKM, tt.tolerance)
			}
		})
	}
}

func TestRoundDistanceKM(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.04, 1.0},
		{1.05, 1.1},
		{2.349, 2.3},
		{11.111, 11.1},
	}

	for _, tt := range tests {
		if got := RoundDistanceKM(tt.in); got != tt.want {
			t.Errorf("RoundDistanceKM(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
