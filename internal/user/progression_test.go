package user_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JoachimHamraoui/bibliomania/internal/user"
)

func TestNextProgress(t *testing.T) {
	tests := []struct {
		name      string
		level     int
		rank      int
		wantLevel int
		wantRank  int
	}{
		{"first level", 0, 1, 1, 1},
		{"mid rank", 4, 1, 5, 1},
		{"reaching ten", 9, 1, 10, 2},
		{"past ten", 10, 2, 11, 2},
		{"reaching twenty", 19, 2, 20, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, rank := user.NextProgress(tt.level, tt.rank)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantRank, rank)
		})
	}
}

func TestNextProgressMonotonic(t *testing.T) {
	level, rank := 0, 1
	for i := 0; i < 35; i++ {
		nextLevel, nextRank := user.NextProgress(level, rank)
		assert.Equal(t, level+1, nextLevel)
		assert.GreaterOrEqual(t, nextRank, rank)
		level, rank = nextLevel, nextRank
	}
	assert.Equal(t, 35, level)
	assert.Equal(t, 4, rank)
}
