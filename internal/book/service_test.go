package book_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoachimHamraoui/bibliomania/internal/book"
	"github.com/JoachimHamraoui/bibliomania/internal/group"
	"github.com/JoachimHamraoui/bibliomania/internal/progress"
	"github.com/JoachimHamraoui/bibliomania/internal/testutil"
	"github.com/JoachimHamraoui/bibliomania/internal/user"
)

func TestAddBook(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	c := testutil.NewContainer(t, db)
	svc := c.BookContainer.Service

	teacher := testutil.CreateUser(t, db, "teacher", user.RoleTeacher)
	member := testutil.CreateUser(t, db, "member", user.RoleStudent)
	g := testutil.CreateGroup(t, db, teacher, "Readers")
	testutil.AddMember(t, db, g, member)

	b, err := svc.AddBook(ctx, teacher.ID, g.ID, book.CreateBookDTO{Title: " Dune ", Author: "Frank Herbert"})
	require.NoError(t, err)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, g.ID, b.GroupID)

	_, err = svc.AddBook(ctx, member.ID, g.ID, book.CreateBookDTO{Title: "Emma", Author: "Jane Austen"})
	assert.ErrorIs(t, err, group.ErrNotGroupOwner)

	_, err = svc.AddBook(ctx, teacher.ID, uuid.New(), book.CreateBookDTO{Title: "Emma", Author: "Jane Austen"})
	assert.ErrorIs(t, err, group.ErrGroupNotFound)

	books, err := svc.ListByGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, books, 1)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestRemainingAndHistory(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	c := testutil.NewContainer(t, db)
	svc := c.BookContainer.Service
	prog := c.ProgressContainer.Service

	teacher := testutil.CreateUser(t, db, "teacher", user.RoleTeacher)
	alice := testutil.CreateUser(t, db, "alice", user.RoleStudent)
	bob := testutil.CreateUser(t, db, "bob", user.RoleStudent)
	g := testutil.CreateGroup(t, db, teacher, "Readers")
	testutil.AddMember(t, db, g, alice)
	testutil.AddMember(t, db, g, bob)
	dune := testutil.CreateBook(t, db, g, "Dune")
	emma := testutil.CreateBook(t, db, g, "Emma")

	history, err := svc.History(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = prog.PromoteWinner(ctx, teacher.ID, g.ID, dune.ID)
	require.NoError(t, err)
	_, err = prog.AssignToMembers(ctx, teacher.ID, g.ID, dune.ID)
	require.NoError(t, err)

	yes := true
	_, err = prog.MarkRead(ctx, alice.ID, progress.UpdateReadDTO{BookID: dune.ID, GroupID: g.ID, Read: &yes})
	require.NoError(t, err)
	_, err = prog.SetLiked(ctx, alice.ID, progress.UpdateLikedDTO{BookID: dune.ID, GroupID: g.ID, Liked: &yes})
	require.NoError(t, err)
	_, err = prog.SetLiked(ctx, bob.ID, progress.UpdateLikedDTO{BookID: dune.ID, GroupID: g.ID, Liked: &yes})
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, bob.ID, book.CreateCommentDTO{GroupID: g.ID, BookID: dune.ID, Comment: "great"})
	require.NoError(t, err)

	remaining, err := svc.Remaining(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, emma.ID, remaining[0].ID)

	history, err = svc.History(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	entry := history[0]
	assert.Equal(t, dune.ID, entry.BookID)
	assert.Equal(t, "Dune", entry.Title)
	assert.False(t, entry.Completed)
	assert.Equal(t, int64(2), entry.Likes)
	assert.Equal(t, int64(1), entry.Reads)
	assert.Equal(t, int64(1), entry.Comments)
}

func TestComments(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	c := testutil.NewContainer(t, db)
	svc := c.BookContainer.Service

	teacher := testutil.CreateUser(t, db, "teacher", user.RoleTeacher)
	alice := testutil.CreateUser(t, db, "alice", user.RoleStudent)
	outsider := testutil.CreateUser(t, db, "outsider", user.RoleStudent)
	g := testutil.CreateGroup(t, db, teacher, "Readers")
	testutil.AddMember(t, db, g, alice)
	b := testutil.CreateBook(t, db, g, "Dune")
	other := testutil.CreateGroup(t, db, teacher, "Others")

	_, err := svc.AddComment(ctx, alice.ID, book.CreateCommentDTO{GroupID: g.ID, BookID: b.ID, Comment: "loved it"})
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, teacher.ID, book.CreateCommentDTO{GroupID: g.ID, BookID: b.ID, Comment: "good pick"})
	require.NoError(t, err)

	t.Run("Outsider", func(t *testing.T) {
		_, err := svc.AddComment(ctx, outsider.ID, book.CreateCommentDTO{GroupID: g.ID, BookID: b.ID, Comment: "hi"})
		assert.ErrorIs(t, err, group.ErrNotMember)
	})

	t.Run("BookFromAnotherGroup", func(t *testing.T) {
		_, err := svc.AddComment(ctx, teacher.ID, book.CreateCommentDTO{GroupID: other.ID, BookID: b.ID, Comment: "hi"})
		assert.ErrorIs(t, err, book.ErrBookNotInGroup)
	})

	comments, err := svc.ListComments(ctx, alice.ID, g.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	byAuthor := make(map[string]book.CommentResponse)
	for _, cm := range comments {
		byAuthor[cm.Username] = cm
		assert.NotEmpty(t, cm.Time)
		assert.NotEmpty(t, cm.Date)
	}
	assert.True(t, byAuthor["alice"].You)
	assert.False(t, byAuthor["teacher"].You)
	assert.Equal(t, "loved it", byAuthor["alice"].Comment)
}
