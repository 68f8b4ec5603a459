package vote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/JoachimHamraoui/bibliomania/internal/book"
	"github.com/JoachimHamraoui/bibliomania/internal/config"
	"github.com/JoachimHamraoui/bibliomania/internal/group"
	"github.com/JoachimHamraoui/bibliomania/internal/metrics"
	"github.com/JoachimHamraoui/bibliomania/internal/progress"
	"github.com/JoachimHamraoui/bibliomania/internal/user"
)

var (
	ErrVoteNotFound      = errors.New("vote not found")
	ErrNoOpenVote        = errors.New("no ongoing vote for this group")
	ErrNoVotes           = errors.New("no votes found for this group")
	ErrVoteAlreadyOpen   = errors.New("group already has an open vote")
	ErrVoteClosed        = errors.New("vote is closed")
	ErrVoteAlreadyClosed = errors.New("vote is already closed")
	ErrNoBallots         = errors.New("vote has no ballots")
	ErrBookNotCandidate  = errors.New("book is not a candidate in this vote")
	ErrDuplicateBallot   = errors.New("user already voted in this vote")
	ErrNotMember         = group.ErrNotMember
)

type VoteService interface {
	Open(ctx context.Context, userID, groupID uuid.UUID) (*Vote, error)
	CastBallot(ctx context.Context, userID uuid.UUID, dto CastBallotDTO) (*Ballot, error)
	Get(ctx context.Context, voteID uuid.UUID) (*VoteResponse, error)
	QueryOpen(ctx context.Context, groupID uuid.UUID) (*VoteResponse, error)
	QueryLast(ctx context.Context, groupID uuid.UUID) (*LastVoteResponse, error)
	Close(ctx context.Context, userID, voteID uuid.UUID) (*CloseResponse, error)
}

type voteService struct {
	db       *gorm.DB
	repo     VoteRepository
	groups   group.GroupService
	books    book.BookRepository
	progress progress.ProgressService
	users    user.UserService
	metrics  *metrics.Metrics
}

func NewService(
	db *gorm.DB,
	repo VoteRepository,
	groups group.GroupService,
	books book.BookRepository,
	prog progress.ProgressService,
	users user.UserService,
	m *metrics.Metrics,
) VoteService {
	return &voteService{
		db:       db,
		repo:     repo,
		groups:   groups,
		books:    books,
		progress: prog,
		users:    users,
		metrics:  m,
	}
}

func (s *voteService) Open(ctx context.Context, userID, groupID uuid.UUID) (*Vote, error) {
	log := config.WithContext(ctx)

	if err := s.groups.CanAccess(ctx, groupID, userID); err != nil {
		return nil, err
	}

	var v *Vote
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if err := repo.LockGroup(ctx, groupID); err != nil {
			return err
		}

		_, err := repo.FindOpen(ctx, groupID)
		if err == nil {
			return ErrVoteAlreadyOpen
		}
		if !errors.Is(err, ErrNoOpenVote) {
			return err
		}

		v = &Vote{GroupID: groupID, Status: OPEN, CreatedBy: userID}
		return repo.Create(ctx, v)
	})
	if err != nil {
		if errors.Is(err, ErrVoteAlreadyOpen) {
			log.WithField("group_id", groupID).Warn("Vote already open for group")
		}
		return nil, err
	}

	s.metrics.VoteTransition(string(OPEN))
	log.WithField("vote_id", v.ID).WithField("group_id", groupID).Info("Vote opened")
	return v, nil
}

func (s *voteService) CastBallot(ctx context.Context, userID uuid.UUID, dto CastBallotDTO) (*Ballot, error) {
	log := config.WithContext(ctx)

	v, err := s.repo.GetByID(ctx, dto.VoteID)
	if err != nil {
		return nil, err
	}
	if v.Status.Ended() {
		return nil, ErrVoteClosed
	}
	if err := s.groups.CanAccess(ctx, v.GroupID, userID); err != nil {
		return nil, err
	}
	if dto.GroupID != uuid.Nil && dto.GroupID != v.GroupID {
		return nil, ErrBookNotCandidate
	}

	var b *Ballot
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		locked, err := repo.LockByID(ctx, v.ID, clauseShare)
		if err != nil {
			return err
		}
		if locked.Status.Ended() {
			return ErrVoteClosed
		}

		ok, err := book.NewRepository(tx).IsRemaining(ctx, v.GroupID, dto.BookID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrBookNotCandidate
		}

		b = &Ballot{VoteID: v.ID, UserID: userID, GroupID: v.GroupID, BookID: dto.BookID}
		return repo.CreateBallot(ctx, b)
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateBallot) || errors.Is(err, ErrBookNotCandidate) {
			log.WithError(err).WithField("vote_id", v.ID).Warn("Ballot rejected")
		}
		return nil, err
	}

	s.metrics.BallotCast()
	log.WithField("vote_id", v.ID).WithField("book_id", dto.BookID).Info("Ballot cast")
	return b, nil
}

const (
	clauseUpdate = "UPDATE"
	clauseShare  = "SHARE"
)

// Close drives the vote through CLOSED, PROMOTED and ASSIGNED in one
// transaction. A vote left PROMOTED by a failed assignment resumes from there.
func (s *voteService) Close(ctx context.Context, userID, voteID uuid.UUID) (*CloseResponse, error) {
	log := config.WithContext(ctx)

	v, err := s.repo.GetByID(ctx, voteID)
	if err != nil {
		return nil, err
	}
	if err := s.groups.CanAccess(ctx, v.GroupID, userID); err != nil {
		return nil, err
	}

	var (
		assignments []progress.MemberAssignment
		transitions []VoteStatus
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		locked, err := repo.LockByID(ctx, voteID, clauseUpdate)
		if err != nil {
			return err
		}
		v = locked

		if v.Status == ASSIGNED {
			return ErrVoteAlreadyClosed
		}

		if v.Status == OPEN {
			ballots, err := repo.ListBallots(ctx, v.ID)
			if err != nil {
				return err
			}
			counts := Tally(ballots)
			winner, ok := Winner(counts)
			if !ok {
				return ErrNoBallots
			}
			snapshot, err := json.Marshal(counts)
			if err != nil {
				return fmt.Errorf("encode tally: %w", err)
			}

			now := time.Now()
			v.Status = CLOSED
			v.WinnerID = &winner
			v.Result = datatypes.JSON(snapshot)
			v.ClosedAt = &now
			if err := repo.SaveState(ctx, v); err != nil {
				return err
			}
			transitions = append(transitions, CLOSED)
		}

		if v.Status == CLOSED {
			if err := s.progress.PromoteTx(ctx, tx, v.GroupID, *v.WinnerID); err != nil {
				return err
			}
			v.Status = PROMOTED
			if err := repo.SaveState(ctx, v); err != nil {
				return err
			}
			transitions = append(transitions, PROMOTED)
		}

		if v.Status == PROMOTED {
			assignments, err = s.progress.AssignToMembersTx(ctx, tx, v.GroupID, *v.WinnerID)
			if err != nil {
				return err
			}
			if !progress.Complete(assignments) {
				return nil
			}
			v.Status = ASSIGNED
			if err := repo.SaveState(ctx, v); err != nil {
				return err
			}
			transitions = append(transitions, ASSIGNED)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrVoteAlreadyClosed), errors.Is(err, ErrNoBallots):
			log.WithError(err).WithField("vote_id", voteID).Warn("Close vote rejected")
		default:
			log.WithError(err).WithField("vote_id", voteID).Error("Failed to close vote")
		}
		return nil, err
	}

	for _, st := range transitions {
		s.metrics.VoteTransition(string(st))
	}
	failed := 0
	for _, a := range assignments {
		if !a.OK {
			failed++
		}
	}
	s.metrics.AssignmentFailed(failed)
	if failed > 0 {
		log.WithField("vote_id", voteID).WithField("failed", failed).Warn("Vote promoted with incomplete assignment")
	}

	resp, err := s.buildResponse(ctx, v)
	if err != nil {
		return nil, err
	}

	log.WithField("vote_id", voteID).WithField("status", v.Status).Info("Vote closed")
	return &CloseResponse{Vote: resp, Assignments: assignments}, nil
}

func (s *voteService) Get(ctx context.Context, voteID uuid.UUID) (*VoteResponse, error) {
	v, err := s.repo.GetByID(ctx, voteID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, v)
}

func (s *voteService) QueryOpen(ctx context.Context, groupID uuid.UUID) (*VoteResponse, error) {
	v, err := s.repo.FindOpen(ctx, groupID)
	if err != nil {
		return nil, err
	}
	resp, err := s.buildResponse(ctx, v)
	if err != nil {
		return nil, err
	}

	candidates, err := s.books.ListRemaining(ctx, groupID)
	if err != nil {
		return nil, err
	}
	resp.Candidates = candidates
	return resp, nil
}

func (s *voteService) QueryLast(ctx context.Context, groupID uuid.UUID) (*LastVoteResponse, error) {
	v, err := s.repo.FindLast(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return &LastVoteResponse{VoteID: v.ID, Status: v.Status, IsCompleted: v.Status.Ended()}, nil
}

// counts returns the stored snapshot of a closed vote, or a live tally while it is open.
func (s *voteService) counts(ctx context.Context, v *Vote) ([]Count, error) {
	if v.Status.Ended() && len(v.Result) > 0 {
		var counts []Count
		if err := json.Unmarshal(v.Result, &counts); err != nil {
			return nil, fmt.Errorf("decode tally: %w", err)
		}
		return counts, nil
	}
	ballots, err := s.repo.ListBallots(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	return Tally(ballots), nil
}

func (s *voteService) buildResponse(ctx context.Context, v *Vote) (*VoteResponse, error) {
	counts, err := s.counts(ctx, v)
	if err != nil {
		return nil, err
	}

	bookIDs := make([]uuid.UUID, 0, len(counts))
	var voterIDs []uuid.UUID
	for _, c := range counts {
		bookIDs = append(bookIDs, c.BookID)
		voterIDs = append(voterIDs, c.Voters...)
	}

	books, err := s.books.ListByIDs(ctx, bookIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*book.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}
	voters, err := s.users.Resolve(ctx, voterIDs)
	if err != nil {
		return nil, err
	}

	resp := &VoteResponse{
		VoteID:    v.ID,
		GroupID:   v.GroupID,
		Status:    v.Status,
		Completed: v.Status.Ended(),
		Books:     make([]BookTally, 0, len(counts)),
		CreatedAt: v.CreatedAt,
		ClosedAt:  v.ClosedAt,
	}
	for _, c := range counts {
		entry := BookTally{BookID: c.BookID, Votes: c.Votes, Users: make([]VoterResponse, 0, len(c.Voters))}
		if b, ok := byID[c.BookID]; ok {
			entry.Title = b.Title
			entry.Author = b.Author
			entry.Cover = b.Cover
		}
		for _, id := range c.Voters {
			if u, ok := voters[id]; ok {
				entry.Users = append(entry.Users, VoterResponse{ID: u.ID, Username: u.Username, ProfilePicture: u.ProfilePicture})
			}
		}
		resp.Books = append(resp.Books, entry)
	}

	if v.WinnerID != nil {
		winner := *v.WinnerID
		resp.MostVotedBook = &winner
	} else if winner, ok := Winner(counts); ok {
		resp.MostVotedBook = &winner
	}
	return resp, nil
}
