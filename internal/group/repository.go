package group

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GroupRepository interface {
	Create(ctx context.Context, g *Group) error
	GetByID(ctx context.Context, id uuid.UUID) (*Group, error)
	GetByCode(ctx context.Context, code string) (*Group, error)
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]*Group, error)
	ListByMember(ctx context.Context, userID uuid.UUID) ([]*Group, error)
	AddMember(ctx context.Context, m *Membership) error
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	MemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)
	CountMembers(ctx context.Context, groupID uuid.UUID) (int64, error)
}

type groupRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, g *Group) error {
	err := r.db.WithContext(ctx).Create(g).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrGroupExists
	}
	return err
}

func (r *groupRepository) GetByID(ctx context.Context, id uuid.UUID) (*Group, error) {
	var g Group
	if err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *groupRepository) GetByCode(ctx context.Context, code string) (*Group, error) {
	var g Group
	if err := r.db.WithContext(ctx).First(&g, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *groupRepository) ListByCreator(ctx context.Context, userID uuid.UUID) ([]*Group, error) {
	var groups []*Group
	if err := r.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *groupRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]*Group, error) {
	var groups []*Group
	if err := r.db.WithContext(ctx).
		Joins("JOIN user_groups ON user_groups.group_id = reading_groups.id").
		Where("user_groups.user_id = ?", userID).
		Order("reading_groups.created_at DESC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *groupRepository) AddMember(ctx context.Context, m *Membership) error {
	err := r.db.WithContext(ctx).Create(m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyMember
	}
	return err
}

func (r *groupRepository) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Membership{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *groupRepository) MemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&Membership{}).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *groupRepository) CountMembers(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Membership{}).Where("group_id = ?", groupID).Count(&count).Error
	return count, err
}
