package utils

import (
	"testing"
	"time"
)

func TestCoalesceString(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want string
	}{
		{"empty slice", []string{}, ""},
		{"all empty", []string{"", ""}, ""},
		{"first non-empty", []string{"", "tavily", "x"}, "tavily"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoalesceString(tt.in...); got != tt.want {
				t.Errorf("CoalesceString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPositiveInt(t *testing.T) {
	tests := []struct {
		v, defaultVal, want int
	}{
		{0, 5, 5},
		{-3, 5, 5},
		{1, 5, 1},
		{20, 5, 20},
	}
	for _, tt := range tests {
		if got := PositiveInt(tt.v, tt.defaultVal); got != tt.want {
			t.Errorf("PositiveInt(%d, %d) = %d, want %d", tt.v, tt.defaultVal, got, tt.want)
		}
	}
}

func TestPositiveDuration(t *testing.T) {
	if got := PositiveDuration(0, time.Second); got != time.Second {
		t.Errorf("PositiveDuration(0) = %v", got)
	}
	if got := PositiveDuration(-time.Second, 30*time.Second); got != 30*time.Second {
		t.Errorf("PositiveDuration(-1s) = %v", got)
	}
	if got := PositiveDuration(2*time.Second, 30*time.Second); got != 2*time.Second {
		t.Errorf("PositiveDuration(2s) = %v", got)
	}
}
