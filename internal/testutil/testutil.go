package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/JoachimHamraoui/bibliomania/internal/auth"
	"github.com/JoachimHamraoui/bibliomania/internal/book"
	"github.com/JoachimHamraoui/bibliomania/internal/config"
	"github.com/JoachimHamraoui/bibliomania/internal/container"
	"github.com/JoachimHamraoui/bibliomania/internal/group"
	"github.com/JoachimHamraoui/bibliomania/internal/schema"
	"github.com/JoachimHamraoui/bibliomania/internal/user"
)

const TestSecret = "test-secret"

// NewDB opens a private in-memory database migrated with the production schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, schema.Migrate(context.Background(), db))
	return db
}

// NewContainer wires every feature against db the way the API does, without a
// question generator.
func NewContainer(t *testing.T, db *gorm.DB) *container.Container {
	t.Helper()
	cfg := &config.Config{
		JWTSecret: []byte(TestSecret),
		TokenTTL:  time.Hour,
		Location:  time.UTC,
	}
	c, err := container.New(context.Background(), cfg, db)
	require.NoError(t, err)
	return c
}

func NewTokens(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager([]byte(TestSecret), time.Hour)
	require.NoError(t, err)
	return tm
}

func CreateUser(t *testing.T, db *gorm.DB, username string, role user.Role) *user.User {
	t.Helper()
	u := &user.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
		Rank:         1,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateGroup(t *testing.T, db *gorm.DB, creator *user.User, name string) *group.Group {
	t.Helper()
	g := &group.Group{Name: name, Code: name[:1] + uuid.NewString()[:5], CreatedBy: creator.ID}
	require.NoError(t, db.Create(g).Error)
	return g
}

func AddMember(t *testing.T, db *gorm.DB, g *group.Group, u *user.User) {
	t.Helper()
	require.NoError(t, db.Create(&group.Membership{UserID: u.ID, GroupID: g.ID}).Error)
}

func CreateBook(t *testing.T, db *gorm.DB, g *group.Group, title string) *book.Book {
	t.Helper()
	b := &book.Book{Title: title, Author: "Author of " + title, GroupID: g.ID, CreatedBy: g.CreatedBy}
	require.NoError(t, db.Create(b).Error)
	return b
}

// Request runs an authenticated JSON request against h. An empty token sends no
// Authorization header.
func Request(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func Token(t *testing.T, tm *auth.TokenManager, u *user.User) string {
	t.Helper()
	token, err := tm.GenerateJWT(u.ID.String(), string(u.Role))
	require.NoError(t, err)
	return token
}
