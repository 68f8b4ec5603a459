package schema_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoachimHamraoui/bibliomania/internal/schema"
	"github.com/JoachimHamraoui/bibliomania/internal/testutil"
	"github.com/JoachimHamraoui/bibliomania/internal/user"
)

func TestMigrateIsRepeatable(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, db.Model(&user.Rank{}).Where("tier = ?", 1).Update("name", "Beginner").Error)
	require.NoError(t, schema.Migrate(context.Background(), db))

	var ranks []user.Rank
	require.NoError(t, db.Order("tier ASC").Find(&ranks).Error)
	require.Len(t, ranks, len(user.DefaultRanks))
	assert.Equal(t, "Beginner", ranks[0].Name)
	assert.Equal(t, "Master", ranks[len(ranks)-1].Name)
}
