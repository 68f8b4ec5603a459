package progress

type ReadingState string

const (
	NOT_ASSIGNED ReadingState = "NOT_ASSIGNED"
	IN_PROGRESS  ReadingState = "IN_PROGRESS"
	COMPLETED    ReadingState = "COMPLETED"
)

var AllStates = []ReadingState{
	NOT_ASSIGNED,
	IN_PROGRESS,
	COMPLETED,
}

func (s ReadingState) IsValid() bool {
	for _, v := range AllStates {
		if s == v {
			return true
		}
	}
	return false
}
