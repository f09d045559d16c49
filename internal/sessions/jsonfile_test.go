package sessions

import (
  "context"
  "os"
  "path/filepath"
  "testing"

  "github.com/migratehq/visabot/internal/models"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
)

func TestJSONFileRoundTrip(t *testing.T) {
  t.Parallel()

  ctx := context.Background()
  path := filepath.Join(t.TempDir(), "sessions.json")

  store, err := NewJSONFile(path)
  require.NoError(t, err)

  _, err = store.Find(ctx, "chat-1")
  require.ErrorIs(t, err, ErrNotFound)

  session := models.NewSession("chat-1")
  session.Greeted = true
  session.StartFlow(models.FlowCanadaPR)
  session.Personal.Name = "John Doe"
  session.PersonalIndex = 1

  require.NoError(t, store.Upsert(ctx, session))

  found, err := store.Find(ctx, "chat-1")
  require.NoError(t, err)
  assert.Equal(t, models.FlowCanadaPR, found.Flow)
  assert.Equal(t, models.StepCollectPersonal, found.Step)
  assert.Equal(t, "John Doe", found.Personal.Name)
  assert.Equal(t, 1, found.PersonalIndex)
  assert.True(t, found.Greeted)
}

func TestJSONFileSurvivesRestart(t *testing.T) {
  t.Parallel()

  ctx := context.Background()
  path := filepath.Join(t.TempDir(), "sessions.json")

  store, err := NewJSONFile(path)
  require.NoError(t, err)

  session := models.NewSession("chat-1")
  session.Greeted = true
  require.NoError(t, store.Upsert(ctx, session))

  reloaded, err := NewJSONFile(path)
  require.NoError(t, err)

  found, err := reloaded.Find(ctx, "chat-1")
  require.NoError(t, err)
  assert.True(t, found.Greeted)
}

func TestJSONFileFindReturnsCopy(t *testing.T) {
  t.Parallel()

  ctx := context.Background()
  path := filepath.Join(t.TempDir(), "sessions.json")

  store, err := NewJSONFile(path)
  require.NoError(t, err)

  require.NoError(t, store.Upsert(ctx, models.NewSession("chat-1")))

  first, err := store.Find(ctx, "chat-1")
  require.NoError(t, err)

  // Mutating a found session must not leak into the store before Upsert.
  first.Flow = models.FlowHandoff

  second, err := store.Find(ctx, "chat-1")
  require.NoError(t, err)
  assert.Equal(t, models.FlowNone, second.Flow)
}

func TestJSONFileCorruptedFileStartsEmpty(t *testing.T) {
  t.Parallel()

  ctx := context.Background()
  path := filepath.Join(t.TempDir(), "sessions.json")

  require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

  store, err := NewJSONFile(path)
  require.NoError(t, err)

  _, err = store.Find(ctx, "chat-1")
  require.ErrorIs(t, err, ErrNotFound)

  // The store must still be writable after a bad load.
  require.NoError(t, store.Upsert(ctx, models.NewSession("chat-1")))

  _, err = store.Find(ctx, "chat-1")
  require.NoError(t, err)
}
