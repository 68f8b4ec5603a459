package vote

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoachimHamraoui/bibliomania/internal/group"
)

type VoteRepository interface {
	Create(ctx context.Context, v *Vote) error
	GetByID(ctx context.Context, id uuid.UUID) (*Vote, error)
	LockByID(ctx context.Context, id uuid.UUID, strength string) (*Vote, error)
	LockGroup(ctx context.Context, groupID uuid.UUID) error
	FindOpen(ctx context.Context, groupID uuid.UUID) (*Vote, error)
	FindLast(ctx context.Context, groupID uuid.UUID) (*Vote, error)
	SaveState(ctx context.Context, v *Vote) error
	CreateBallot(ctx context.Context, b *Ballot) error
	ListBallots(ctx context.Context, voteID uuid.UUID) ([]Ballot, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewRepository binds the repository to db, which may be a transaction.
func NewRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Create(ctx context.Context, v *Vote) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *voteRepository) GetByID(ctx context.Context, id uuid.UUID) (*Vote, error) {
	var v Vote
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVoteNotFound
		}
		return nil, err
	}
	return &v, nil
}

// LockByID loads the vote with a row lock of the given strength (UPDATE or SHARE).
func (r *voteRepository) LockByID(ctx context.Context, id uuid.UUID, strength string) (*Vote, error) {
	var v Vote
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: strength}).
		First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVoteNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *voteRepository) LockGroup(ctx context.Context, groupID uuid.UUID) error {
	var g group.Group
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&g, "id = ?", groupID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return group.ErrGroupNotFound
	}
	return err
}

func (r *voteRepository) FindOpen(ctx context.Context, groupID uuid.UUID) (*Vote, error) {
	var v Vote
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND status = ?", groupID, OPEN).
		Order("created_at DESC").
		First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOpenVote
		}
		return nil, err
	}
	return &v, nil
}

func (r *voteRepository) FindLast(ctx context.Context, groupID uuid.UUID) (*Vote, error) {
	var v Vote
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at DESC").
		First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoVotes
		}
		return nil, err
	}
	return &v, nil
}

func (r *voteRepository) SaveState(ctx context.Context, v *Vote) error {
	return r.db.WithContext(ctx).Model(v).
		Select("status", "winner_id", "result", "closed_at").
		Updates(v).Error
}

func (r *voteRepository) CreateBallot(ctx context.Context, b *Ballot) error {
	err := r.db.WithContext(ctx).Create(b).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateBallot
	}
	return err
}

func (r *voteRepository) ListBallots(ctx context.Context, voteID uuid.UUID) ([]Ballot, error) {
	var ballots []Ballot
	if err := r.db.WithContext(ctx).
		Where("vote_id = ?", voteID).
		Order("created_at ASC").
		Find(&ballots).Error; err != nil {
		return nil, err
	}
	return ballots, nil
}
