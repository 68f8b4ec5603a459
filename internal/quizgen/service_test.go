package quizgen_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoachimHamraoui/bibliomania/internal/group"
	"github.com/JoachimHamraoui/bibliomania/internal/quiz"
	"github.com/JoachimHamraoui/bibliomania/internal/quizgen"
	"github.com/JoachimHamraoui/bibliomania/internal/testutil"
	"github.com/JoachimHamraoui/bibliomania/internal/user"
)

type fakeProvider struct {
	drafts []quizgen.Draft
	err    error
	prompt string
}

func (p *fakeProvider) SendPrompt(ctx context.Context, system, user string) ([]quizgen.Draft, error) {
	p.prompt = user
	return p.drafts, p.err
}

func TestParseDrafts(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"plain", `[{"question":"Q1","options":["a","b"],"answer":"a"}]`, 1, false},
		{"fenced", "```json\n[{\"question\":\"Q1\",\"options\":[\"a\",\"b\"],\"answer\":\"a\"}]\n```", 1, false},
		{"drops invalid", `[{"question":"","options":["a","b"]},{"question":"Q","options":["a"]},{"question":"Q2","options":["a","b","c"]}]`, 1, false},
		{"empty", "  ", 0, true},
		{"not json", "sorry, I cannot", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts, err := quizgen.ParseDrafts(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, drafts, tt.want)
		})
	}
}

func TestBuildUserPrompt(t *testing.T) {
	prompt := quizgen.BuildUserPrompt("Dune", "Frank Herbert", quizgen.GenerateRequest{Count: 50})
	assert.Contains(t, prompt, `"Dune"`)
	assert.Contains(t, prompt, "Frank Herbert")
	assert.Contains(t, prompt, "10 medium questions")
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	c := testutil.NewContainer(t, db)

	teacher := testutil.CreateUser(t, db, "teacher", user.RoleTeacher)
	student := testutil.CreateUser(t, db, "student", user.RoleStudent)
	g := testutil.CreateGroup(t, db, teacher, "Readers")
	testutil.AddMember(t, db, g, student)
	b := testutil.CreateBook(t, db, g, "Dune")

	provider := &fakeProvider{drafts: []quizgen.Draft{
		{Question: "Who is Paul's mother?", Options: []string{"Jessica", "Irulan", "Chani", "Alia"}, Answer: "Jessica"},
	}}
	svc := quizgen.NewService(provider, c.BookContainer.Service, c.GroupContainer.Service, c.QuizContainer.Service)

	t.Run("PreviewOnly", func(t *testing.T) {
		resp, err := svc.Generate(ctx, teacher.ID, b.ID, quizgen.GenerateRequest{Count: 1, Difficulty: "easy"})
		require.NoError(t, err)
		assert.Len(t, resp.Drafts, 1)
		assert.Empty(t, resp.Saved)
		assert.Contains(t, provider.prompt, "1 easy questions")

		var count int64
		require.NoError(t, db.Model(&quiz.Question{}).Where("book_id = ?", b.ID).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("Save", func(t *testing.T) {
		resp, err := svc.Generate(ctx, teacher.ID, b.ID, quizgen.GenerateRequest{Save: true})
		require.NoError(t, err)
		require.Len(t, resp.Saved, 1)
		assert.Len(t, resp.Saved[0].Options, 4)

		list, err := c.QuizContainer.Service.ListBookQuestions(ctx, b.ID)
		require.NoError(t, err)
		require.Len(t, list.Questions, 1)
		assert.Equal(t, "Who is Paul's mother?", list.Questions[0].Question)
	})

	t.Run("NotOwner", func(t *testing.T) {
		_, err := svc.Generate(ctx, student.ID, b.ID, quizgen.GenerateRequest{})
		assert.ErrorIs(t, err, group.ErrNotGroupOwner)
	})

	t.Run("ProviderError", func(t *testing.T) {
		failing := quizgen.NewService(&fakeProvider{err: errors.New("quota")}, c.BookContainer.Service, c.GroupContainer.Service, c.QuizContainer.Service)
		_, err := failing.Generate(ctx, teacher.ID, b.ID, quizgen.GenerateRequest{})
		assert.Error(t, err)
	})

	t.Run("Disabled", func(t *testing.T) {
		_, err := c.QuizGenContainer.Service.Generate(ctx, teacher.ID, b.ID, quizgen.GenerateRequest{})
		assert.ErrorIs(t, err, quizgen.ErrGeneratorDisabled)
	})
}
