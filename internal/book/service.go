package book

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JoachimHamraoui/bibliomania/internal/config"
	"github.com/JoachimHamraoui/bibliomania/internal/group"
	"github.com/JoachimHamraoui/bibliomania/internal/user"
	util "github.com/JoachimHamraoui/bibliomania/internal/utils"
)

var (
	ErrBookNotFound   = errors.New("book not found")
	ErrBookNotInGroup = errors.New("book does not belong to this group")
)

type BookService interface {
	AddBook(ctx context.Context, userID, groupID uuid.UUID, dto CreateBookDTO) (*Book, error)
	Get(ctx context.Context, id uuid.UUID) (*Book, error)
	InGroup(ctx context.Context, groupID, bookID uuid.UUID) (*Book, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*Book, error)
	Remaining(ctx context.Context, groupID uuid.UUID) ([]*Book, error)
	History(ctx context.Context, groupID uuid.UUID) ([]HistoryEntry, error)
	AddComment(ctx context.Context, userID uuid.UUID, dto CreateCommentDTO) (*Comment, error)
	ListComments(ctx context.Context, viewerID, groupID, bookID uuid.UUID) ([]CommentResponse, error)
}

type bookService struct {
	repo   BookRepository
	groups group.GroupService
	users  user.UserService
	clock  util.Clock
}

func NewService(repo BookRepository, groups group.GroupService, users user.UserService, loc *time.Location) BookService {
	return &bookService{repo: repo, groups: groups, users: users, clock: util.NewClock(loc)}
}

func (s *bookService) AddBook(ctx context.Context, userID, groupID uuid.UUID, dto CreateBookDTO) (*Book, error) {
	log := config.WithContext(ctx)

	if _, err := s.groups.RequireOwner(ctx, groupID, userID); err != nil {
		log.WithError(err).WithField("group_id", groupID).Warn("Add book rejected")
		return nil, err
	}

	b := &Book{
		Title:       strings.TrimSpace(dto.Title),
		Author:      strings.TrimSpace(dto.Author),
		Description: dto.Description,
		Cover:       dto.Cover,
		GroupID:     groupID,
		CreatedBy:   userID,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		log.WithError(err).Error("Failed to create book")
		return nil, err
	}

	log.WithField("book_id", b.ID).WithField("group_id", groupID).Info("Book added to group")
	return b, nil
}

func (s *bookService) Get(ctx context.Context, id uuid.UUID) (*Book, error) {
	return s.repo.GetByID(ctx, id)
}

// InGroup loads a book and checks that it belongs to the group.
func (s *bookService) InGroup(ctx context.Context, groupID, bookID uuid.UUID) (*Book, error) {
	b, err := s.repo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if b.GroupID != groupID {
		return nil, ErrBookNotInGroup
	}
	return b, nil
}

func (s *bookService) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*Book, error) {
	if _, err := s.groups.Get(ctx, groupID); err != nil {
		return nil, err
	}
	return s.repo.ListByGroup(ctx, groupID)
}

func (s *bookService) Remaining(ctx context.Context, groupID uuid.UUID) ([]*Book, error) {
	if _, err := s.groups.Get(ctx, groupID); err != nil {
		return nil, err
	}
	return s.repo.ListRemaining(ctx, groupID)
}

func (s *bookService) History(ctx context.Context, groupID uuid.UUID) ([]HistoryEntry, error) {
	if _, err := s.groups.Get(ctx, groupID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListHistory(ctx, groupID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to load book history")
		return nil, err
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}
	return entries, nil
}

func (s *bookService) AddComment(ctx context.Context, userID uuid.UUID, dto CreateCommentDTO) (*Comment, error) {
	log := config.WithContext(ctx)

	if err := s.groups.CanAccess(ctx, dto.GroupID, userID); err != nil {
		return nil, err
	}
	if _, err := s.InGroup(ctx, dto.GroupID, dto.BookID); err != nil {
		return nil, err
	}

	c := &Comment{
		UserID:  userID,
		GroupID: dto.GroupID,
		BookID:  dto.BookID,
		Comment: strings.TrimSpace(dto.Comment),
		Image:   dto.Image,
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		log.WithError(err).Error("Failed to create comment")
		return nil, err
	}

	log.WithField("comment_id", c.ID).Info("Comment added")
	return c, nil
}

func (s *bookService) ListComments(ctx context.Context, viewerID, groupID, bookID uuid.UUID) ([]CommentResponse, error) {
	if _, err := s.InGroup(ctx, groupID, bookID); err != nil {
		return nil, err
	}

	comments, err := s.repo.ListComments(ctx, groupID, bookID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	authors, err := s.users.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		author := authors[c.UserID]
		out = append(out, CommentResponse{
			ID:             c.ID,
			UserID:         c.UserID,
			GroupID:        c.GroupID,
			BookID:         c.BookID,
			Comment:        c.Comment,
			Image:          c.Image,
			Username:       author.Username,
			ProfilePicture: author.ProfilePicture,
			Rank:           author.Rank,
			You:            c.UserID == viewerID,
			Time:           s.clock.Time(c.CreatedAt),
			Date:           s.clock.Date(c.CreatedAt),
			CreatedAt:      c.CreatedAt,
		})
	}
	return out, nil
}
