package vote_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoachimHamraoui/bibliomania/internal/vote"
)

func ballot(user, book uuid.UUID, at time.Time) vote.Ballot {
	return vote.Ballot{ID: uuid.New(), UserID: user, BookID: book, CreatedAt: at}
}

func TestTally(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	x, y, z := uuid.New(), uuid.New(), uuid.New()
	u1, u2, u3 := uuid.New(), uuid.New(), uuid.New()

	t.Run("Empty", func(t *testing.T) {
		counts := vote.Tally(nil)
		assert.Empty(t, counts)
		_, ok := vote.Winner(counts)
		assert.False(t, ok)
	})

	t.Run("MostVotesWins", func(t *testing.T) {
		counts := vote.Tally([]vote.Ballot{
			ballot(u1, y, base),
			ballot(u2, x, base.Add(time.Second)),
			ballot(u3, x, base.Add(2*time.Second)),
		})
		require.Len(t, counts, 2)
		assert.Equal(t, x, counts[0].BookID)
		assert.Equal(t, 2, counts[0].Votes)
		assert.Equal(t, []uuid.UUID{u2, u3}, counts[0].Voters)
		assert.Equal(t, 1, counts[1].Votes)

		winner, ok := vote.Winner(counts)
		require.True(t, ok)
		assert.Equal(t, x, winner)
	})

	t.Run("TieGoesToEarliestBallot", func(t *testing.T) {
		counts := vote.Tally([]vote.Ballot{
			ballot(u2, z, base.Add(time.Second)),
			ballot(u1, y, base),
		})
		winner, _ := vote.Winner(counts)
		assert.Equal(t, y, winner)
	})

	t.Run("TieAtSameInstantGoesToLowestID", func(t *testing.T) {
		a, b := uuid.New(), uuid.New()
		if a.String() > b.String() {
			a, b = b, a
		}
		counts := vote.Tally([]vote.Ballot{
			ballot(u1, b, base),
			ballot(u2, a, base),
		})
		winner, _ := vote.Winner(counts)
		assert.Equal(t, a, winner)
	})

	t.Run("RepeatedVoterCountsOnce", func(t *testing.T) {
		counts := vote.Tally([]vote.Ballot{
			ballot(u1, x, base),
			ballot(u1, x, base.Add(time.Second)),
			ballot(u2, y, base.Add(2*time.Second)),
		})
		require.Len(t, counts, 2)
		assert.Equal(t, 1, counts[0].Votes)
		assert.Equal(t, x, counts[0].BookID)
	})

	t.Run("InputNotMutated", func(t *testing.T) {
		in := []vote.Ballot{ballot(u2, x, base.Add(time.Second)), ballot(u1, y, base)}
		vote.Tally(in)
		assert.Equal(t, u2, in[0].UserID)
	})
}
