package wal

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEntry struct {
	N int    `json:"n"`
	S string `json:"s"`
}

func TestAppendAndReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")

	w, err := Open(path)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, w.Append(testEntry{N: i, S: "entry"}))
	}
	require.NoError(t, w.Close())

	// 重開後依寫入順序重放
	w2, err := Open(path)
	require.NoError(t, err)
	defer w2.Close()

	var got []testEntry
	err = w2.Replay(func(raw []byte) error {
		var e testEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return err
		}
		got = append(got, e)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, e := range got {
		assert.Equal(t, i, e.N)
	}
}

func TestReplayEmptyFile(t *testing.T) {
	w, err := Open(filepath.Join(t.TempDir(), "wal.log"))
	require.NoError(t, err)
	defer w.Close()

	calls := 0
	require.NoError(t, w.Replay(func([]byte) error {
		calls++
		return nil
	}))
	assert.Zero(t, calls)
}

func TestReplayThenAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")

	w, err := Open(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Append(testEntry{N: 1}))
	require.NoError(t, w.Replay(func([]byte) error { return nil }))
	// O_APPEND: Replay 移動過讀取位置後，寫入仍然落在檔尾
	require.NoError(t, w.Append(testEntry{N: 2}))

	count := 0
	require.NoError(t, w.Replay(func([]byte) error {
		count++
		return nil
	}))
	assert.Equal(t, 2, count)
}
