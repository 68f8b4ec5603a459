package vote

type VoteStatus string

const (
	OPEN     VoteStatus = "OPEN"
	CLOSED   VoteStatus = "CLOSED"
	PROMOTED VoteStatus = "PROMOTED"
	ASSIGNED VoteStatus = "ASSIGNED"
)

var AllStatuses = []VoteStatus{
	OPEN,
	CLOSED,
	PROMOTED,
	ASSIGNED,
}

func (s VoteStatus) IsValid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Ended reports whether ballots are no longer accepted.
func (s VoteStatus) Ended() bool {
	return s != OPEN
}
