package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoachimHamraoui/bibliomania/internal/book"
	"github.com/JoachimHamraoui/bibliomania/internal/config"
	"github.com/JoachimHamraoui/bibliomania/internal/group"
	"github.com/JoachimHamraoui/bibliomania/internal/user"
)

var (
	ErrNotAssigned = errors.New("book is not assigned to this member")
	ErrNotPromoted = errors.New("book is not in the group history")
	ErrNotAMember  = errors.New("target user is not a member of this group")
)

type ProgressService interface {
	AssignBook(ctx context.Context, requesterID uuid.UUID, dto AssignBookDTO) (*UserBook, error)
	AssignInProgressTx(ctx context.Context, tx *gorm.DB, groupID, userID uuid.UUID) error
	PromoteWinner(ctx context.Context, requesterID, groupID, bookID uuid.UUID) (*GroupBookHistory, error)
	AssignToMembers(ctx context.Context, requesterID, groupID, bookID uuid.UUID) (*AssignResult, error)
	PromoteTx(ctx context.Context, tx *gorm.DB, groupID, bookID uuid.UUID) error
	AssignToMembersTx(ctx context.Context, tx *gorm.DB, groupID, bookID uuid.UUID) ([]MemberAssignment, error)
	MarkRead(ctx context.Context, userID uuid.UUID, dto UpdateReadDTO) (*UserBook, error)
	SetLiked(ctx context.Context, userID uuid.UUID, dto UpdateLikedDTO) (*UserBook, error)
	EvaluateCompletion(ctx context.Context, groupID, bookID uuid.UUID) (bool, error)
	Readers(ctx context.Context, groupID, bookID uuid.UUID) (*ReadersResponse, error)
	Likers(ctx context.Context, groupID, bookID uuid.UUID) ([]ReaderResponse, error)
	State(ctx context.Context, groupID, bookID uuid.UUID) (*StatusResponse, error)
	HasRead(ctx context.Context, userID, bookID uuid.UUID) (bool, error)
}

type progressService struct {
	db     *gorm.DB
	repo   ProgressRepository
	groups group.GroupRepository
	books  book.BookRepository
	users  user.UserService
}

func NewService(db *gorm.DB, repo ProgressRepository, groups group.GroupRepository, books book.BookRepository, users user.UserService) ProgressService {
	return &progressService{db: db, repo: repo, groups: groups, books: books, users: users}
}

func (s *progressService) bookInGroup(ctx context.Context, groupID, bookID uuid.UUID) error {
	b, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return err
	}
	if b.GroupID != groupID {
		return book.ErrBookNotInGroup
	}
	return nil
}

func (s *progressService) AssignBook(ctx context.Context, requesterID uuid.UUID, dto AssignBookDTO) (*UserBook, error) {
	log := config.WithContext(ctx)

	if err := group.CheckAccess(ctx, s.groups, dto.GroupID, requesterID); err != nil {
		return nil, err
	}
	if err := s.bookInGroup(ctx, dto.GroupID, dto.BookID); err != nil {
		return nil, err
	}
	member, err := s.groups.IsMember(ctx, dto.GroupID, dto.UserID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotAMember
	}

	ub := &UserBook{UserID: dto.UserID, BookID: dto.BookID, GroupID: dto.GroupID}
	if _, err := s.repo.InsertUserBook(ctx, ub); err != nil {
		log.WithError(err).Error("Failed to assign book to member")
		return nil, err
	}

	return s.repo.GetUserBook(ctx, dto.UserID, dto.BookID, dto.GroupID)
}

// AssignInProgressTx gives a new member every book the group has not completed yet, on tx.
func (s *progressService) AssignInProgressTx(ctx context.Context, tx *gorm.DB, groupID, userID uuid.UUID) error {
	repo := NewRepository(tx)
	ids, err := repo.InProgressBookIDs(ctx, groupID)
	if err != nil {
		return err
	}
	for _, bookID := range ids {
		ub := &UserBook{UserID: userID, BookID: bookID, GroupID: groupID}
		if _, err := repo.InsertUserBook(ctx, ub); err != nil {
			return fmt.Errorf("assign book %s: %w", bookID, err)
		}
	}
	return nil
}

func (s *progressService) PromoteWinner(ctx context.Context, requesterID, groupID, bookID uuid.UUID) (*GroupBookHistory, error) {
	if err := group.CheckAccess(ctx, s.groups, groupID, requesterID); err != nil {
		return nil, err
	}
	if err := s.bookInGroup(ctx, groupID, bookID); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.PromoteTx(ctx, tx, groupID, bookID)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetHistory(ctx, groupID, bookID)
}

// PromoteTx adds the book to the group history on tx. Promoting twice is a no-op.
func (s *progressService) PromoteTx(ctx context.Context, tx *gorm.DB, groupID, bookID uuid.UUID) error {
	created, err := NewRepository(tx).InsertHistory(ctx, &GroupBookHistory{GroupID: groupID, BookID: bookID})
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to promote book")
		return err
	}
	if created {
		config.WithContext(ctx).WithField("group_id", groupID).WithField("book_id", bookID).Info("Book promoted to group history")
	}
	return nil
}

func (s *progressService) AssignToMembers(ctx context.Context, requesterID, groupID, bookID uuid.UUID) (*AssignResult, error) {
	if err := group.CheckAccess(ctx, s.groups, groupID, requesterID); err != nil {
		return nil, err
	}
	if err := s.bookInGroup(ctx, groupID, bookID); err != nil {
		return nil, err
	}

	var results []MemberAssignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		results, err = s.AssignToMembersTx(ctx, tx, groupID, bookID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &AssignResult{GroupID: groupID, BookID: bookID, Members: results, Complete: Complete(results)}, nil
}

// AssignToMembersTx gives the book to every current member on tx. Each insert
// runs in its own savepoint so one failure does not abort the others.
func (s *progressService) AssignToMembersTx(ctx context.Context, tx *gorm.DB, groupID, bookID uuid.UUID) ([]MemberAssignment, error) {
	log := config.WithContext(ctx)
	repo := NewRepository(tx)

	if _, err := repo.GetHistory(ctx, groupID, bookID); err != nil {
		return nil, err
	}

	memberIDs, err := group.NewRepository(tx).MemberIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}

	results := make([]MemberAssignment, 0, len(memberIDs))
	for i, memberID := range memberIDs {
		sp := fmt.Sprintf("assign_member_%d", i)
		if err := tx.SavePoint(sp).Error; err != nil {
			return nil, err
		}

		ub := &UserBook{UserID: memberID, BookID: bookID, GroupID: groupID}
		if _, err := repo.InsertUserBook(ctx, ub); err != nil {
			log.WithError(err).WithField("user_id", memberID).Error("Failed to assign book to member")
			if rbErr := tx.RollbackTo(sp).Error; rbErr != nil {
				return nil, rbErr
			}
			results = append(results, MemberAssignment{UserID: memberID, Error: "assignment failed"})
			continue
		}
		results = append(results, MemberAssignment{UserID: memberID, OK: true})
	}

	log.WithField("group_id", groupID).WithField("book_id", bookID).
		WithField("members", len(results)).Info("Book assigned to members")
	return results, nil
}

func (s *progressService) MarkRead(ctx context.Context, userID uuid.UUID, dto UpdateReadDTO) (*UserBook, error) {
	ub, err := s.setFlag(ctx, userID, dto.GroupID, dto.BookID, "read", *dto.Read)
	if err != nil {
		return nil, err
	}
	if ub.Read {
		if _, err := s.EvaluateCompletion(ctx, dto.GroupID, dto.BookID); err != nil {
			return nil, err
		}
	}
	return ub, nil
}

func (s *progressService) SetLiked(ctx context.Context, userID uuid.UUID, dto UpdateLikedDTO) (*UserBook, error) {
	return s.setFlag(ctx, userID, dto.GroupID, dto.BookID, "liked", *dto.Liked)
}

func (s *progressService) setFlag(ctx context.Context, userID, groupID, bookID uuid.UUID, column string, value bool) (*UserBook, error) {
	ub, err := s.repo.GetUserBook(ctx, userID, bookID, groupID)
	if err != nil {
		return nil, err
	}

	current := ub.Read
	if column == "liked" {
		current = ub.Liked
	}
	if current != value {
		if err := s.repo.SetFlag(ctx, ub, column, value); err != nil {
			config.WithContext(ctx).WithError(err).Errorf("Failed to update %s flag", column)
			return nil, err
		}
	}

	if column == "liked" {
		ub.Liked = value
	} else {
		ub.Read = value
	}
	return ub, nil
}

// EvaluateCompletion marks the group's book completed once every current
// member has read it. It reports whether the book is completed.
func (s *progressService) EvaluateCompletion(ctx context.Context, groupID, bookID uuid.UUID) (bool, error) {
	h, err := s.repo.GetHistory(ctx, groupID, bookID)
	if err != nil {
		if errors.Is(err, ErrNotPromoted) {
			return false, nil
		}
		return false, err
	}
	if h.Completed {
		return true, nil
	}

	members, err := s.groups.CountMembers(ctx, groupID)
	if err != nil {
		return false, err
	}
	if members == 0 {
		return false, nil
	}
	reads, err := s.repo.CountMemberReads(ctx, groupID, bookID)
	if err != nil {
		return false, err
	}
	if reads != members {
		return false, nil
	}

	if _, err := s.repo.MarkCompleted(ctx, groupID, bookID); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to mark book completed")
		return false, err
	}
	config.WithContext(ctx).WithField("group_id", groupID).WithField("book_id", bookID).Info("Group completed book")
	return true, nil
}

func (s *progressService) Readers(ctx context.Context, groupID, bookID uuid.UUID) (*ReadersResponse, error) {
	if err := s.bookInGroup(ctx, groupID, bookID); err != nil {
		return nil, err
	}

	completed, err := s.EvaluateCompletion(ctx, groupID, bookID)
	if err != nil {
		return nil, err
	}
	readers, err := s.flagged(ctx, groupID, bookID, "read")
	if err != nil {
		return nil, err
	}
	members, err := s.groups.CountMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return &ReadersResponse{Readers: readers, Members: members, Completed: completed}, nil
}

func (s *progressService) Likers(ctx context.Context, groupID, bookID uuid.UUID) ([]ReaderResponse, error) {
	if err := s.bookInGroup(ctx, groupID, bookID); err != nil {
		return nil, err
	}
	return s.flagged(ctx, groupID, bookID, "liked")
}

func (s *progressService) flagged(ctx context.Context, groupID, bookID uuid.UUID, column string) ([]ReaderResponse, error) {
	ids, err := s.repo.FlaggedUserIDs(ctx, groupID, bookID, column)
	if err != nil {
		return nil, err
	}
	users, err := s.users.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ReaderResponse, 0, len(ids))
	for _, id := range ids {
		u, ok := users[id]
		if !ok {
			continue
		}
		out = append(out, ReaderResponse{
			ID:             u.ID,
			Username:       u.Username,
			Email:          u.Email,
			ProfilePicture: u.ProfilePicture,
			Rank:           u.Rank,
		})
	}
	return out, nil
}

func (s *progressService) State(ctx context.Context, groupID, bookID uuid.UUID) (*StatusResponse, error) {
	if err := s.bookInGroup(ctx, groupID, bookID); err != nil {
		return nil, err
	}

	resp := &StatusResponse{GroupID: groupID, BookID: bookID, State: NOT_ASSIGNED}
	if _, err := s.repo.GetHistory(ctx, groupID, bookID); err != nil {
		if errors.Is(err, ErrNotPromoted) {
			return resp, nil
		}
		return nil, err
	}

	completed, err := s.EvaluateCompletion(ctx, groupID, bookID)
	if err != nil {
		return nil, err
	}
	resp.State = IN_PROGRESS
	if completed {
		resp.State = COMPLETED
	}
	return resp, nil
}

func (s *progressService) HasRead(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	ub, err := s.repo.FindUserBook(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, ErrNotAssigned) {
			return false, nil
		}
		return false, err
	}
	return ub.Read, nil
}
