package registry

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myshelfapp/myshelf-server/internal/domain"
	"github.com/myshelfapp/myshelf-server/internal/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "users.json")
	return New(path, slog.New(slog.DiscardHandler))
}

func testProfile(id string, specializations ...string) *domain.UserProfile {
	return &domain.UserProfile{
		ID:              id,
		Name:            "User " + id,
		Position:        "M1",
		Specializations: specializations,
		ReadingHistory:  []domain.BookEntry{},
	}
}

func TestLoadMissingFileBootstrapsEmpty(t *testing.T) {
	store := newTestStore(t)

	reg, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, reg.Users)
	assert.NotNil(t, reg.Categories)
}

func TestLoadMalformedFileFails(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o750))
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o600))

	_, err := store.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}

func TestPublishProfileRoundTrip(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.PublishProfile(testProfile("amane", "制御理論")))

	reg, err := store.Load()
	require.NoError(t, err)
	require.Len(t, reg.Users, 1)
	assert.Equal(t, "amane", reg.Users[0].ID)
	require.Len(t, reg.Network.Nodes, 1)
	assert.Equal(t, "制御理論", reg.Network.Nodes[0].Field)
}

func TestPublishProfileReplacesByID(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.PublishProfile(testProfile("amane", "制御理論")))

	updated := testProfile("amane", "気象学")
	updated.Name = "Renamed"
	require.NoError(t, store.PublishProfile(updated))

	reg, err := store.Load()
	require.NoError(t, err)
	require.Len(t, reg.Users, 1)
	assert.Equal(t, "Renamed", reg.Users[0].Name)
	assert.Equal(t, []string{"気象学"}, reg.Users[0].Specializations)
	require.Len(t, reg.Network.Nodes, 1)
	assert.Equal(t, "気象学", reg.Network.Nodes[0].Field)
}

func TestPublishProfileAppendsNewID(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.PublishProfile(testProfile("a")))
	require.NoError(t, store.PublishProfile(testProfile("b")))

	users, err := store.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestPublishProfileCreatesEdges(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.PublishProfile(testProfile("a", "制御理論", "気象学")))
	require.NoError(t, store.PublishProfile(testProfile("b", "気象学", "数学")))

	reg, err := store.Load()
	require.NoError(t, err)
	require.Len(t, reg.Network.Edges, 1)
	edge := reg.Network.Edges[0]
	assert.True(t, edge.Connects("a", "b"))
	assert.Equal(t, 1, edge.Strength)
	assert.Contains(t, edge.Label, "気象学")
}

func TestPublishProfileRepublishDoesNotDuplicateEdges(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.PublishProfile(testProfile("a", "気象学")))
	require.NoError(t, store.PublishProfile(testProfile("b", "気象学")))
	// Republish both; the a-b edge must stay singular.
	require.NoError(t, store.PublishProfile(testProfile("a", "気象学")))
	require.NoError(t, store.PublishProfile(testProfile("b", "気象学")))

	reg, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, reg.Network.Edges, 1)
}

func TestUpdateErrorLeavesFileUntouched(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.PublishProfile(testProfile("a")))

	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	err = store.Update(func(reg *domain.Registry) error {
		reg.Users = nil // would be destructive if persisted
		return errors.Internal("boom")
	})
	require.Error(t, err)

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDeleteUser(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.PublishProfile(testProfile("a", "気象学")))
	require.NoError(t, store.PublishProfile(testProfile("b", "気象学")))

	require.NoError(t, store.DeleteUser("a"))

	reg, err := store.Load()
	require.NoError(t, err)
	require.Len(t, reg.Users, 1)
	assert.Equal(t, "b", reg.Users[0].ID)
	// Node and incident edges are pruned with the user.
	assert.Len(t, reg.Network.Nodes, 1)
	assert.Empty(t, reg.Network.Edges)
}

func TestDeleteUserNotFound(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.PublishProfile(testProfile("a")))

	err := store.DeleteUser("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	users, listErr := store.ListUsers()
	require.NoError(t, listErr)
	assert.Len(t, users, 1)
}

func TestListUsersMissingRegistry(t *testing.T) {
	store := newTestStore(t)

	users, err := store.ListUsers()
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestSavedDocumentIsPrettyPrinted(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.PublishProfile(testProfile("a")))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"users\"")
}
