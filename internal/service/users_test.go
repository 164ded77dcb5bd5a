package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myshelfapp/myshelf-server/internal/errors"
)

func TestListEmptyWhenRegistryMissing(t *testing.T) {
	env := newTestEnv(t)

	users, err := env.users.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestDeleteRemovesUserAndPage(t *testing.T) {
	env := newTestEnv(t)
	env.seedCategories(t)
	upload := env.writeUpload(t, sampleTSV)
	require.True(t, env.tracker.TryStart())
	env.gen.Run(context.Background(), sampleJob(upload))

	pagePath := filepath.Join(env.pagesDir, "mypage_amane.html")
	_, err := os.Stat(pagePath)
	require.NoError(t, err)

	require.NoError(t, env.users.Delete(context.Background(), "amane"))

	users, err := env.users.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = os.Stat(pagePath)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteUnknownUserIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.seedCategories(t)

	err := env.users.Delete(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
