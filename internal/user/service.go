package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/JoachimHamraoui/bibliomania/internal/auth"
	"github.com/JoachimHamraoui/bibliomania/internal/config"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
)

type UserService interface {
	Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error)
	Login(ctx context.Context, dto LoginDTO) (string, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*UserResponse, error)
	LoggedIn(ctx context.Context, id uuid.UUID) (*LoggedInResponse, error)
	LevelUp(ctx context.Context, id uuid.UUID) (*LevelUpResponse, error)
	UpdateProfilePicture(ctx context.Context, id uuid.UUID, url string) error
	UpdateBio(ctx context.Context, id uuid.UUID, bio string) error
	Resolve(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]UserResponse, error)
}

type userService struct {
	repo   UserRepository
	tokens *auth.TokenManager
}

func NewService(repo UserRepository, tokens *auth.TokenManager) UserService {
	return &userService{repo: repo, tokens: tokens}
}

func (s *userService) Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error) {
	log := config.WithContext(ctx)

	role := dto.Role
	if role == "" {
		role = RoleStudent
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	hash, err := auth.HashPassword(dto.Password)
	if err != nil {
		log.WithError(err).Error("Failed to hash password")
		return nil, err
	}

	u := &User{
		Username:       strings.TrimSpace(dto.Username),
		Email:          strings.ToLower(strings.TrimSpace(dto.Email)),
		PasswordHash:   hash,
		Role:           role,
		Level:          0,
		Rank:           1,
		ProfilePicture: dto.ProfilePicture,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			log.WithField("username", u.Username).Warn("Registration with taken username or email")
			return nil, err
		}
		log.WithError(err).Error("Failed to create user")
		return nil, err
	}

	ranks, err := s.repo.ListRanks(ctx)
	if err != nil {
		return nil, err
	}

	log.WithField("user_id", u.ID).Info("User registered")
	resp := toResponse(u, ranks)
	return &resp, nil
}

func (s *userService) Login(ctx context.Context, dto LoginDTO) (string, error) {
	log := config.WithContext(ctx)

	u, err := s.repo.GetByUsername(ctx, dto.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		log.WithError(err).Error("Failed to load user for login")
		return "", err
	}

	if !auth.CheckPassword(u.PasswordHash, dto.Password) {
		log.WithField("user_id", u.ID).Warn("Login with wrong password")
		return "", ErrInvalidCredentials
	}

	return s.tokens.GenerateJWT(u.ID.String(), string(u.Role))
}

func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ranks, err := s.repo.ListRanks(ctx)
	if err != nil {
		return nil, err
	}
	resp := toResponse(u, ranks)
	return &resp, nil
}

func (s *userService) LoggedIn(ctx context.Context, id uuid.UUID) (*LoggedInResponse, error) {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ranks, err := s.repo.ListRanks(ctx)
	if err != nil {
		return nil, err
	}

	out := &LoggedInResponse{AllUsers: make([]UserResponse, 0, len(users))}
	found := false
	for _, u := range users {
		resp := toResponse(u, ranks)
		out.AllUsers = append(out.AllUsers, resp)
		if u.ID == id {
			out.AuthenticatedUserData = resp
			found = true
		}
	}
	if !found {
		return nil, ErrUserNotFound
	}
	return out, nil
}

func (s *userService) LevelUp(ctx context.Context, id uuid.UUID) (*LevelUpResponse, error) {
	log := config.WithContext(ctx)

	u, err := s.repo.LevelUp(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			log.WithError(err).Error("Failed to level up user")
		}
		return nil, err
	}

	ranks, err := s.repo.ListRanks(ctx)
	if err != nil {
		return nil, err
	}
	rank := rankFor(u.Rank, ranks)

	log.WithField("user_id", id).WithField("level", u.Level).Info("User levelled up")
	return &LevelUpResponse{NewLevel: u.Level, NewRank: u.Rank, RankName: rank.Name}, nil
}

func (s *userService) UpdateProfilePicture(ctx context.Context, id uuid.UUID, url string) error {
	return s.repo.UpdateFields(ctx, id, map[string]interface{}{"profile_picture": url})
}

func (s *userService) UpdateBio(ctx context.Context, id uuid.UUID, bio string) error {
	return s.repo.UpdateFields(ctx, id, map[string]interface{}{"bio": bio})
}

// Resolve loads the given users keyed by id. Unknown ids are skipped.
func (s *userService) Resolve(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]UserResponse, error) {
	users, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	ranks, err := s.repo.ListRanks(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]UserResponse, len(users))
	for _, u := range users {
		out[u.ID] = toResponse(u, ranks)
	}
	return out, nil
}

// rankFor maps a tier to its display rank; tiers past the last seeded one
// display as the last one.
func rankFor(tier int, ranks []Rank) Rank {
	if len(ranks) == 0 {
		return Rank{Tier: tier}
	}
	best := ranks[0]
	for _, r := range ranks {
		if r.Tier <= tier {
			best = r
		}
	}
	return best
}

func toResponse(u *User, ranks []Rank) UserResponse {
	rank := rankFor(u.Rank, ranks)
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Role:           u.Role,
		Level:          u.Level,
		RankTier:       u.Rank,
		Rank:           rank.Name,
		Color:          rank.Color,
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
	}
}
