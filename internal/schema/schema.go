package schema

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoachimHamraoui/bibliomania/internal/book"
	"github.com/JoachimHamraoui/bibliomania/internal/config"
	"github.com/JoachimHamraoui/bibliomania/internal/group"
	"github.com/JoachimHamraoui/bibliomania/internal/progress"
	"github.com/JoachimHamraoui/bibliomania/internal/quiz"
	"github.com/JoachimHamraoui/bibliomania/internal/user"
	"github.com/JoachimHamraoui/bibliomania/internal/vote"
)

// Models lists every persisted entity in creation order.
func Models() []interface{} {
	return []interface{}{
		&user.Rank{},
		&user.User{},
		&group.Group{},
		&group.Membership{},
		&book.Book{},
		&book.Comment{},
		&progress.GroupBookHistory{},
		&progress.UserBook{},
		&vote.Vote{},
		&vote.Ballot{},
		&quiz.Question{},
		&quiz.QuestionOption{},
		&quiz.UserAnswer{},
	}
}

// Migrate creates or updates the tables and seeds the rank tiers.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := SeedRanks(ctx, db); err != nil {
		return err
	}
	config.WithContext(ctx).Info("Database schema ready")
	return nil
}

// SeedRanks inserts the default tiers, leaving existing tiers untouched.
func SeedRanks(ctx context.Context, db *gorm.DB) error {
	ranks := make([]user.Rank, len(user.DefaultRanks))
	copy(ranks, user.DefaultRanks)

	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "tier"}}, DoNothing: true}).
		Create(&ranks).Error
	if err != nil {
		return fmt.Errorf("seed ranks: %w", err)
	}
	return nil
}
