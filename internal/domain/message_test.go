package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"zero limit defaults", 0, 0, DefaultPageLimit, 0},
		{"negative limit defaults", -5, 0, DefaultPageLimit, 0},
		{"limit above cap clamped", 9999, 0, MaxPageLimit, 0},
		{"limit at cap kept", MaxPageLimit, 0, MaxPageLimit, 0},
		{"negative offset clamped", 10, -3, 10, 0},
		{"valid window kept", 2, 1, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := NormalizePage(tt.limit, tt.offset)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}
