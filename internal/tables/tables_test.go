package tables_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dynoinc/skyload/internal/database"
	"github.com/dynoinc/skyload/internal/mocks"
	"github.com/dynoinc/skyload/internal/tables"
)

func TestCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	db := mocks.NewMockQuerier(ctrl)

	gomock.InOrder(
		db.EXPECT().GetTable(gomock.Any(), "1").Return(database.Table{TableID: "1", State: "ONLINE"}, nil),
		db.EXPECT().GetTable(gomock.Any(), "1").Return(database.Table{TableID: "1", State: "OFFLINE"}, nil),
	)

	c, err := tables.NewCache(tables.Config{CacheSize: 8}, db)
	require.NoError(t, err)

	for range 3 {
		s, err := c.State(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, tables.StateOnline, s)
	}

	c.Invalidate()

	s, err := c.State(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, tables.StateOffline, s)
}

func TestCache_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := mocks.NewMockQuerier(ctrl)
	db.EXPECT().GetTable(gomock.Any(), "missing").Return(database.Table{}, pgx.ErrNoRows)

	c, err := tables.NewCache(tables.Config{}, db)
	require.NoError(t, err)

	_, err = c.State(context.Background(), "missing")
	require.ErrorIs(t, err, tables.ErrNotFound)
}
