package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(h int) time.Time {
	return time.Date(2025, 6, 2, h, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"disjoint before", at(8), at(9), at(10), at(11), false},
		{"disjoint after", at(12), at(13), at(10), at(11), false},
		{"partial overlap", at(9), at(11), at(10), at(12), true},
		{"contained", at(9), at(14), at(10), at(11), true},
		{"containing", at(10), at(11), at(9), at(14), true},
		{"identical", at(10), at(12), at(10), at(12), true},
		{"a ends exactly when b starts", at(8), at(10), at(10), at(12), true},
		{"b ends exactly when a starts", at(10), at(12), at(8), at(10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// symmetry
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}
