package group_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/JoachimHamraoui/bibliomania/internal/group"
	"github.com/JoachimHamraoui/bibliomania/internal/progress"
	"github.com/JoachimHamraoui/bibliomania/internal/testutil"
	"github.com/JoachimHamraoui/bibliomania/internal/user"
)

func TestCreateGroup(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	c := testutil.NewContainer(t, db)
	svc := c.GroupContainer.Service

	teacher := testutil.CreateUser(t, db, "teacher", user.RoleTeacher)
	student := testutil.CreateUser(t, db, "student", user.RoleStudent)

	t.Run("TeacherWithGeneratedCode", func(t *testing.T) {
		g, err := svc.Create(ctx, teacher.ID, group.CreateGroupDTO{Name: "Readers"})
		require.NoError(t, err)
		assert.Len(t, g.Code, 6)
		assert.Equal(t, teacher.ID, g.CreatedBy)
		assert.Equal(t, "teacher", g.CreatorUsername)

		found, err := svc.FindByCode(ctx, g.Code)
		require.NoError(t, err)
		assert.Equal(t, g.ID, found.ID)
	})

	t.Run("TeacherWithExplicitCode", func(t *testing.T) {
		g, err := svc.Create(ctx, teacher.ID, group.CreateGroupDTO{Name: "Poets", Code: "poem42"})
		require.NoError(t, err)
		assert.Equal(t, "POEM42", g.Code)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		_, err := svc.Create(ctx, teacher.ID, group.CreateGroupDTO{Name: "Readers"})
		assert.ErrorIs(t, err, group.ErrGroupExists)
	})

	t.Run("StudentRejected", func(t *testing.T) {
		_, err := svc.Create(ctx, student.ID, group.CreateGroupDTO{Name: "Nope"})
		assert.ErrorIs(t, err, group.ErrTeacherOnly)
	})

	created, err := svc.ListCreated(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Len(t, created, 2)
}

func TestJoinGroup(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	c := testutil.NewContainer(t, db)
	svc := c.GroupContainer.Service

	teacher := testutil.CreateUser(t, db, "teacher", user.RoleTeacher)
	student := testutil.CreateUser(t, db, "student", user.RoleStudent)
	g := testutil.CreateGroup(t, db, teacher, "Readers")

	t.Run("WrongCode", func(t *testing.T) {
		_, err := svc.Join(ctx, student.ID, group.JoinGroupDTO{GroupID: g.ID, Code: "WRONG1"})
		assert.ErrorIs(t, err, group.ErrInvalidCode)

		var count int64
		require.NoError(t, db.Model(&group.Membership{}).Where("group_id = ?", g.ID).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("UnknownGroup", func(t *testing.T) {
		_, err := svc.Join(ctx, student.ID, group.JoinGroupDTO{GroupID: uuid.New(), Code: g.Code})
		assert.ErrorIs(t, err, group.ErrGroupNotFound)
	})

	t.Run("CorrectCode", func(t *testing.T) {
		m, err := svc.Join(ctx, student.ID, group.JoinGroupDTO{GroupID: g.ID, Code: g.Code})
		require.NoError(t, err)
		assert.Equal(t, student.ID, m.UserID)

		require.NoError(t, svc.CanAccess(ctx, g.ID, student.ID))
	})

	t.Run("AlreadyMember", func(t *testing.T) {
		_, err := svc.Join(ctx, student.ID, group.JoinGroupDTO{GroupID: g.ID, Code: g.Code})
		assert.ErrorIs(t, err, group.ErrAlreadyMember)
	})

	members, err := svc.Members(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "student", members[0].Username)

	joined, err := svc.ListJoined(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, joined, 1)
	assert.Equal(t, g.ID, joined[0].ID)
}

func TestJoinAssignsInProgressBooks(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	c := testutil.NewContainer(t, db)

	teacher := testutil.CreateUser(t, db, "teacher", user.RoleTeacher)
	late := testutil.CreateUser(t, db, "late", user.RoleStudent)
	g := testutil.CreateGroup(t, db, teacher, "Readers")
	current := testutil.CreateBook(t, db, g, "Dune")
	testutil.CreateBook(t, db, g, "Emma")

	_, err := c.ProgressContainer.Service.PromoteWinner(ctx, teacher.ID, g.ID, current.ID)
	require.NoError(t, err)

	_, err = c.GroupContainer.Service.Join(ctx, late.ID, group.JoinGroupDTO{GroupID: g.ID, Code: g.Code})
	require.NoError(t, err)

	var rows []progress.UserBook
	require.NoError(t, db.Where("user_id = ? AND group_id = ?", late.ID, g.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, current.ID, rows[0].BookID)
	assert.False(t, rows[0].Read)
}

func TestAccessChecks(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	c := testutil.NewContainer(t, db)
	svc := c.GroupContainer.Service

	teacher := testutil.CreateUser(t, db, "teacher", user.RoleTeacher)
	outsider := testutil.CreateUser(t, db, "outsider", user.RoleStudent)
	g := testutil.CreateGroup(t, db, teacher, "Readers")

	assert.NoError(t, svc.CanAccess(ctx, g.ID, teacher.ID))
	assert.ErrorIs(t, svc.CanAccess(ctx, g.ID, outsider.ID), group.ErrNotMember)

	_, err := svc.RequireOwner(ctx, g.ID, teacher.ID)
	assert.NoError(t, err)
	_, err = svc.RequireOwner(ctx, g.ID, outsider.ID)
	assert.ErrorIs(t, err, group.ErrNotGroupOwner)
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := group.GenerateCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "O")
		seen[code] = true
	}
	assert.Greater(t, len(seen), 40)
}

type failingAssigner struct{}

func (failingAssigner) AssignInProgressTx(ctx context.Context, tx *gorm.DB, groupID, userID uuid.UUID) error {
	return errors.New("insert failed")
}

func TestJoinRollsBackWhenAssignmentFails(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	c := testutil.NewContainer(t, db)

	teacher := testutil.CreateUser(t, db, "teacher", user.RoleTeacher)
	late := testutil.CreateUser(t, db, "late", user.RoleStudent)
	g := testutil.CreateGroup(t, db, teacher, "Readers")

	svc := group.NewService(db, group.NewRepository(db), c.UserContainer.Service, failingAssigner{})

	_, err := svc.Join(ctx, late.ID, group.JoinGroupDTO{GroupID: g.ID, Code: g.Code})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&group.Membership{}).Where("group_id = ? AND user_id = ?", g.ID, late.ID).Count(&count).Error)
	assert.Zero(t, count)
	assert.ErrorIs(t, svc.CanAccess(ctx, g.ID, late.ID), group.ErrNotMember)
}

func TestViewHidesCodeFromOutsiders(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	c := testutil.NewContainer(t, db)
	svc := c.GroupContainer.Service

	teacher := testutil.CreateUser(t, db, "teacher", user.RoleTeacher)
	member := testutil.CreateUser(t, db, "member", user.RoleStudent)
	outsider := testutil.CreateUser(t, db, "outsider", user.RoleStudent)
	g := testutil.CreateGroup(t, db, teacher, "Readers")
	testutil.AddMember(t, db, g, member)

	tests := []struct {
		name     string
		viewer   uuid.UUID
		wantCode string
	}{
		{"creator", teacher.ID, g.Code},
		{"member", member.ID, g.Code},
		{"outsider", outsider.ID, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.View(ctx, tt.viewer, g.ID)
			require.NoError(t, err)
			assert.Equal(t, g.ID, resp.ID)
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}

	_, err := svc.View(ctx, teacher.ID, uuid.New())
	assert.ErrorIs(t, err, group.ErrGroupNotFound)
}
