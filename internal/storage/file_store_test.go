package storage

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"consentd/internal/models"
	"consentd/internal/structures"
	"consentd/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) StoreInterface {
	t.Helper()
	conf := &structures.Config{
		Persistence: structures.Persistence{
			FilePath: filepath.Join(t.TempDir(), "responses.json"),
		},
	}
	return NewFileStore(conf, &testutil.MockLogger{})
}

func rec(session string) models.Record {
	return models.Record{
		models.FieldSessionID: session,
		models.FieldFeedback:  map[string]any{},
		models.FieldRatings:   map[string]any{},
	}
}

func TestFileStore_Load_MissingFile(t *testing.T) {
	store := newTestStore(t)

	records, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileStore_SaveLoad_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save([]models.Record{rec("a"), rec("b")}))

	records, err := store.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].SessionID())
	assert.Equal(t, "b", records[1].SessionID())
}

func TestFileStore_Append_PreservesOrder(t *testing.T) {
	store := newTestStore(t)

	for i, session := range []string{"s1", "s2", "s3"} {
		total, err := store.Append(rec(session))
		require.NoError(t, err)
		assert.Equal(t, i+1, total)
	}

	records, err := store.Load()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "s1", records[0].SessionID())
	assert.Equal(t, "s3", records[2].SessionID())
}

func TestFileStore_Save_PrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.json")
	conf := &structures.Config{Persistence: structures.Persistence{FilePath: path}}
	store := NewFileStore(conf, &testutil.MockLogger{})

	require.NoError(t, store.Save([]models.Record{rec("a")}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n  {"))
}

func TestFileStore_Save_EmptyWritesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.json")
	conf := &structures.Config{Persistence: structures.Persistence{FilePath: path}}
	store := NewFileStore(conf, &testutil.MockLogger{})

	require.NoError(t, store.Save(nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestFileStore_Load_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	conf := &structures.Config{Persistence: structures.Persistence{FilePath: path}}
	store := NewFileStore(conf, &testutil.MockLogger{})

	_, err := store.Load()
	assert.Error(t, err)
}

func TestFileStore_Count(t *testing.T) {
	store := newTestStore(t)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = store.Append(rec("a"))
	require.NoError(t, err)

	count, err = store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFileStore_ConcurrentAppends_NoLostWrites(t *testing.T) {
	store := newTestStore(t)

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := store.Append(rec("x"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	records, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, records, n)
}

func TestFileStore_Save_LeavesNoTmpFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "responses.json")
	conf := &structures.Config{Persistence: structures.Persistence{FilePath: path}}
	store := NewFileStore(conf, &testutil.MockLogger{})

	require.NoError(t, store.Save([]models.Record{rec("a")}))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
