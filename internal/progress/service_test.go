package progress_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoachimHamraoui/bibliomania/internal/book"
	"github.com/JoachimHamraoui/bibliomania/internal/group"
	"github.com/JoachimHamraoui/bibliomania/internal/progress"
	"github.com/JoachimHamraoui/bibliomania/internal/testutil"
	"github.com/JoachimHamraoui/bibliomania/internal/user"
)

func boolPtr(b bool) *bool { return &b }

func TestReadingProgress(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	c := testutil.NewContainer(t, db)
	svc := c.ProgressContainer.Service

	teacher := testutil.CreateUser(t, db, "teacher", user.RoleTeacher)
	alice := testutil.CreateUser(t, db, "alice", user.RoleStudent)
	bob := testutil.CreateUser(t, db, "bob", user.RoleStudent)
	g := testutil.CreateGroup(t, db, teacher, "Readers")
	testutil.AddMember(t, db, g, alice)
	testutil.AddMember(t, db, g, bob)
	b := testutil.CreateBook(t, db, g, "Dune")

	state, err := svc.State(ctx, g.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, progress.NOT_ASSIGNED, state.State)

	t.Run("ReadBeforeAssignment", func(t *testing.T) {
		_, err := svc.MarkRead(ctx, alice.ID, progress.UpdateReadDTO{BookID: b.ID, GroupID: g.ID, Read: boolPtr(true)})
		assert.ErrorIs(t, err, progress.ErrNotAssigned)
	})

	_, err = svc.PromoteWinner(ctx, teacher.ID, g.ID, b.ID)
	require.NoError(t, err)
	result, err := svc.AssignToMembers(ctx, teacher.ID, g.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, result.Complete)
	assert.Len(t, result.Members, 2)

	state, err = svc.State(ctx, g.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, progress.IN_PROGRESS, state.State)

	t.Run("MarkReadIsIdempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			ub, err := svc.MarkRead(ctx, alice.ID, progress.UpdateReadDTO{BookID: b.ID, GroupID: g.ID, Read: boolPtr(true)})
			require.NoError(t, err)
			assert.True(t, ub.Read)
		}

		readers, err := svc.Readers(ctx, g.ID, b.ID)
		require.NoError(t, err)
		require.Len(t, readers.Readers, 1)
		assert.Equal(t, alice.ID, readers.Readers[0].ID)
		assert.Equal(t, int64(2), readers.Members)
		assert.False(t, readers.Completed)
	})

	t.Run("LastReaderCompletesBook", func(t *testing.T) {
		_, err := svc.MarkRead(ctx, bob.ID, progress.UpdateReadDTO{BookID: b.ID, GroupID: g.ID, Read: boolPtr(true)})
		require.NoError(t, err)

		state, err := svc.State(ctx, g.ID, b.ID)
		require.NoError(t, err)
		assert.Equal(t, progress.COMPLETED, state.State)
	})

	t.Run("CompletionIsMonotonic", func(t *testing.T) {
		ub, err := svc.MarkRead(ctx, bob.ID, progress.UpdateReadDTO{BookID: b.ID, GroupID: g.ID, Read: boolPtr(false)})
		require.NoError(t, err)
		assert.False(t, ub.Read)

		state, err := svc.State(ctx, g.ID, b.ID)
		require.NoError(t, err)
		assert.Equal(t, progress.COMPLETED, state.State)

		read, err := svc.HasRead(ctx, bob.ID, b.ID)
		require.NoError(t, err)
		assert.False(t, read)
	})

	t.Run("Likes", func(t *testing.T) {
		_, err := svc.SetLiked(ctx, alice.ID, progress.UpdateLikedDTO{BookID: b.ID, GroupID: g.ID, Liked: boolPtr(true)})
		require.NoError(t, err)

		likers, err := svc.Likers(ctx, g.ID, b.ID)
		require.NoError(t, err)
		require.Len(t, likers, 1)
		assert.Equal(t, "alice", likers[0].Username)
	})
}

func TestAssignBook(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	c := testutil.NewContainer(t, db)
	svc := c.ProgressContainer.Service

	teacher := testutil.CreateUser(t, db, "teacher", user.RoleTeacher)
	member := testutil.CreateUser(t, db, "member", user.RoleStudent)
	stranger := testutil.CreateUser(t, db, "stranger", user.RoleStudent)
	g := testutil.CreateGroup(t, db, teacher, "Readers")
	testutil.AddMember(t, db, g, member)
	b := testutil.CreateBook(t, db, g, "Dune")
	other := testutil.CreateGroup(t, db, teacher, "Others")
	foreign := testutil.CreateBook(t, db, other, "Foreign")

	ub, err := svc.AssignBook(ctx, teacher.ID, progress.AssignBookDTO{UserID: member.ID, BookID: b.ID, GroupID: g.ID})
	require.NoError(t, err)
	assert.False(t, ub.Read)

	again, err := svc.AssignBook(ctx, teacher.ID, progress.AssignBookDTO{UserID: member.ID, BookID: b.ID, GroupID: g.ID})
	require.NoError(t, err)
	assert.Equal(t, ub.ID, again.ID)

	_, err = svc.AssignBook(ctx, teacher.ID, progress.AssignBookDTO{UserID: stranger.ID, BookID: b.ID, GroupID: g.ID})
	assert.ErrorIs(t, err, progress.ErrNotAMember)

	_, err = svc.AssignBook(ctx, stranger.ID, progress.AssignBookDTO{UserID: member.ID, BookID: b.ID, GroupID: g.ID})
	assert.ErrorIs(t, err, group.ErrNotMember)

	_, err = svc.AssignBook(ctx, teacher.ID, progress.AssignBookDTO{UserID: member.ID, BookID: foreign.ID, GroupID: g.ID})
	assert.ErrorIs(t, err, book.ErrBookNotInGroup)
}

func TestAssignToMembersRequiresPromotion(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	c := testutil.NewContainer(t, db)

	teacher := testutil.CreateUser(t, db, "teacher", user.RoleTeacher)
	g := testutil.CreateGroup(t, db, teacher, "Readers")
	b := testutil.CreateBook(t, db, g, "Dune")

	_, err := c.ProgressContainer.Service.AssignToMembers(ctx, teacher.ID, g.ID, b.ID)
	assert.ErrorIs(t, err, progress.ErrNotPromoted)
}

func TestEmptyGroupNeverCompletes(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	c := testutil.NewContainer(t, db)
	svc := c.ProgressContainer.Service

	teacher := testutil.CreateUser(t, db, "teacher", user.RoleTeacher)
	g := testutil.CreateGroup(t, db, teacher, "Empty")
	b := testutil.CreateBook(t, db, g, "Dune")

	_, err := svc.PromoteWinner(ctx, teacher.ID, g.ID, b.ID)
	require.NoError(t, err)

	done, err := svc.EvaluateCompletion(ctx, g.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestStateEvaluatesCompletion(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	c := testutil.NewContainer(t, db)
	svc := c.ProgressContainer.Service

	teacher := testutil.CreateUser(t, db, "teacher", user.RoleTeacher)
	alice := testutil.CreateUser(t, db, "alice", user.RoleStudent)
	g := testutil.CreateGroup(t, db, teacher, "Readers")
	testutil.AddMember(t, db, g, alice)
	b := testutil.CreateBook(t, db, g, "Dune")

	_, err := svc.PromoteWinner(ctx, teacher.ID, g.ID, b.ID)
	require.NoError(t, err)
	_, err = svc.AssignToMembers(ctx, teacher.ID, g.ID, b.ID)
	require.NoError(t, err)

	// Flag set without going through MarkRead, so completion was never evaluated.
	require.NoError(t, db.Model(&progress.UserBook{}).
		Where("user_id = ? AND book_id = ?", alice.ID, b.ID).
		Update("read", true).Error)

	state, err := svc.State(ctx, g.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, progress.COMPLETED, state.State)

	var h progress.GroupBookHistory
	require.NoError(t, db.First(&h, "group_id = ? AND book_id = ?", g.ID, b.ID).Error)
	assert.True(t, h.Completed)
}
