package group

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoachimHamraoui/bibliomania/internal/config"
	"github.com/JoachimHamraoui/bibliomania/internal/user"
)

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrGroupExists    = errors.New("group name or code already in use")
	ErrInvalidCode    = errors.New("invalid code")
	ErrAlreadyMember  = errors.New("user is already a member of this group")
	ErrNotMember      = errors.New("user is not a member of this group")
	ErrTeacherOnly    = errors.New("only teachers can create groups")
	ErrNotGroupOwner  = errors.New("only the group creator can do this")
	errCodeGeneration = errors.New("could not generate a unique group code")
)

const maxCodeAttempts = 5

// BookAssigner hands the group's in-progress books to a member who joins late.
// It runs on the transaction that inserts the membership.
type BookAssigner interface {
	AssignInProgressTx(ctx context.Context, tx *gorm.DB, groupID, userID uuid.UUID) error
}

type GroupService interface {
	Create(ctx context.Context, creatorID uuid.UUID, dto CreateGroupDTO) (*GroupResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*GroupResponse, error)
	View(ctx context.Context, viewerID, id uuid.UUID) (*GroupResponse, error)
	FindByCode(ctx context.Context, code string) (*GroupResponse, error)
	ListJoined(ctx context.Context, userID uuid.UUID) ([]GroupResponse, error)
	ListCreated(ctx context.Context, userID uuid.UUID) ([]GroupResponse, error)
	Members(ctx context.Context, groupID uuid.UUID) ([]MemberResponse, error)
	Join(ctx context.Context, userID uuid.UUID, dto JoinGroupDTO) (*Membership, error)
	CanAccess(ctx context.Context, groupID, userID uuid.UUID) error
	RequireOwner(ctx context.Context, groupID, userID uuid.UUID) (*Group, error)
}

type groupService struct {
	db       *gorm.DB
	repo     GroupRepository
	users    user.UserService
	assigner BookAssigner
}

func NewService(db *gorm.DB, repo GroupRepository, users user.UserService, assigner BookAssigner) GroupService {
	return &groupService{db: db, repo: repo, users: users, assigner: assigner}
}

func (s *groupService) Create(ctx context.Context, creatorID uuid.UUID, dto CreateGroupDTO) (*GroupResponse, error) {
	log := config.WithContext(ctx)

	creator, err := s.users.GetProfile(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if creator.Role != user.RoleTeacher {
		log.WithField("user_id", creatorID).Warn("Non-teacher tried to create a group")
		return nil, ErrTeacherOnly
	}

	g := &Group{
		Name:        strings.TrimSpace(dto.Name),
		Image:       dto.Image,
		Description: dto.Description,
		Code:        strings.ToUpper(dto.Code),
		IsPrivate:   dto.IsPrivate,
		CreatedBy:   creatorID,
	}

	if g.Code != "" {
		if err := s.repo.Create(ctx, g); err != nil {
			return nil, err
		}
	} else if err := s.createWithGeneratedCode(ctx, g); err != nil {
		return nil, err
	}

	log.WithField("group_id", g.ID).Info("Group created")
	resp := toResponse(g, creator.Username)
	return &resp, nil
}

func (s *groupService) createWithGeneratedCode(ctx context.Context, g *Group) error {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := GenerateCode()
		if err != nil {
			return err
		}
		g.Code = code
		g.ID = uuid.Nil

		err = s.repo.Create(ctx, g)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrGroupExists) {
			return err
		}
		// The name may be the duplicate, not the code.
		if _, lookupErr := s.repo.GetByCode(ctx, code); errors.Is(lookupErr, ErrGroupNotFound) {
			return ErrGroupExists
		}
	}
	return errCodeGeneration
}

func (s *groupService) Get(ctx context.Context, id uuid.UUID) (*GroupResponse, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withCreator(ctx, g)
}

// View is Get for a requester; the join code is only shown to the creator and members.
func (s *groupService) View(ctx context.Context, viewerID, id uuid.UUID) (*GroupResponse, error) {
	resp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	err = CheckAccess(ctx, s.repo, id, viewerID)
	switch {
	case errors.Is(err, ErrNotMember):
		resp.Code = ""
	case err != nil:
		return nil, err
	}
	return resp, nil
}

func (s *groupService) FindByCode(ctx context.Context, code string) (*GroupResponse, error) {
	g, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	return s.withCreator(ctx, g)
}

func (s *groupService) ListJoined(ctx context.Context, userID uuid.UUID) ([]GroupResponse, error) {
	groups, err := s.repo.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withCreators(ctx, groups)
}

func (s *groupService) ListCreated(ctx context.Context, userID uuid.UUID) ([]GroupResponse, error) {
	groups, err := s.repo.ListByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withCreators(ctx, groups)
}

func (s *groupService) Members(ctx context.Context, groupID uuid.UUID) ([]MemberResponse, error) {
	if _, err := s.repo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}

	ids, err := s.repo.MemberIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}
	users, err := s.users.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}

	members := make([]MemberResponse, 0, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			members = append(members, ToMember(u))
		}
	}
	return members, nil
}

func (s *groupService) Join(ctx context.Context, userID uuid.UUID, dto JoinGroupDTO) (*Membership, error) {
	log := config.WithContext(ctx)

	g, err := s.repo.GetByID(ctx, dto.GroupID)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(g.Code, strings.TrimSpace(dto.Code)) {
		log.WithField("group_id", g.ID).Warn("Join attempt with invalid code")
		return nil, ErrInvalidCode
	}

	m := &Membership{UserID: userID, GroupID: g.ID}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := NewRepository(tx).AddMember(ctx, m); err != nil {
			return err
		}
		if s.assigner == nil {
			return nil
		}
		if err := s.assigner.AssignInProgressTx(ctx, tx, g.ID, userID); err != nil {
			return fmt.Errorf("assign in-progress books: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrAlreadyMember) {
			log.WithError(err).Error("Failed to add group member")
		}
		return nil, err
	}

	log.WithField("group_id", g.ID).WithField("user_id", userID).Info("User joined group")
	return m, nil
}

func (s *groupService) CanAccess(ctx context.Context, groupID, userID uuid.UUID) error {
	return CheckAccess(ctx, s.repo, groupID, userID)
}

// CheckAccess succeeds for the group creator and for members.
func CheckAccess(ctx context.Context, repo GroupRepository, groupID, userID uuid.UUID) error {
	g, err := repo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if g.CreatedBy == userID {
		return nil
	}
	ok, err := repo.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotMember
	}
	return nil
}

func (s *groupService) RequireOwner(ctx context.Context, groupID, userID uuid.UUID) (*Group, error) {
	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g.CreatedBy != userID {
		return nil, ErrNotGroupOwner
	}
	return g, nil
}

func (s *groupService) withCreator(ctx context.Context, g *Group) (*GroupResponse, error) {
	out, err := s.withCreators(ctx, []*Group{g})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *groupService) withCreators(ctx context.Context, groups []*Group) ([]GroupResponse, error) {
	ids := make([]uuid.UUID, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.CreatedBy)
	}
	creators, err := s.users.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toResponse(g, creators[g.CreatedBy].Username))
	}
	return out, nil
}

func toResponse(g *Group, creatorUsername string) GroupResponse {
	return GroupResponse{
		ID:              g.ID,
		Name:            g.Name,
		Image:           g.Image,
		Description:     g.Description,
		Code:            g.Code,
		IsPrivate:       g.IsPrivate,
		CreatedBy:       g.CreatedBy,
		CreatorUsername: creatorUsername,
		CreatedAt:       g.CreatedAt,
	}
}
