package vote

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Count is the number of distinct voters for one book, in first-ballot order.
type Count struct {
	BookID      uuid.UUID   `json:"book_id"`
	Votes       int         `json:"votes"`
	Voters      []uuid.UUID `json:"voters"`
	FirstBallot time.Time   `json:"first_ballot"`
}

// Tally groups ballots by book and orders the result by votes descending,
// then by the earliest ballot for the book, then by book id.
func Tally(ballots []Ballot) []Count {
	sorted := make([]Ballot, len(ballots))
	copy(sorted, ballots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	byBook := make(map[uuid.UUID]*Count)
	seen := make(map[uuid.UUID]map[uuid.UUID]bool)
	var order []uuid.UUID

	for _, b := range sorted {
		c, ok := byBook[b.BookID]
		if !ok {
			c = &Count{BookID: b.BookID, FirstBallot: b.CreatedAt}
			byBook[b.BookID] = c
			seen[b.BookID] = make(map[uuid.UUID]bool)
			order = append(order, b.BookID)
		}
		if seen[b.BookID][b.UserID] {
			continue
		}
		seen[b.BookID][b.UserID] = true
		c.Votes++
		c.Voters = append(c.Voters, b.UserID)
	}

	out := make([]Count, 0, len(order))
	for _, id := range order {
		out = append(out, *byBook[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Votes != out[j].Votes {
			return out[i].Votes > out[j].Votes
		}
		if !out[i].FirstBallot.Equal(out[j].FirstBallot) {
			return out[i].FirstBallot.Before(out[j].FirstBallot)
		}
		return out[i].BookID.String() < out[j].BookID.String()
	})
	return out
}

// Winner returns the first book of a tally, or false when nobody voted.
func Winner(counts []Count) (uuid.UUID, bool) {
	if len(counts) == 0 {
		return uuid.Nil, false
	}
	return counts[0].BookID, true
}
