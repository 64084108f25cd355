package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mharlow/loopcast/internal/channel"
)

func TestCheckNowInvokesOnChangeWhenMtimeAdvances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"type":"sequential","name":"A","slug":"a","paths":["/media"]}]`), 0644))

	var received []channel.Definition
	w := New(path, time.Hour, func(defs []channel.Definition) { received = defs })
	w.Start()
	defer w.Stop()

	// Initial mtime was captured at Start; bump it forward and rewrite.
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.WriteFile(path, []byte(`[{"type":"shuffle","name":"B","slug":"b","paths":["/media2"]}]`), 0644))
	require.NoError(t, os.Chtimes(path, future, future))

	w.CheckNow()

	require.Len(t, received, 1)
	assert.Equal(t, "b", received[0].Slug)
}

func TestCheckNowSkipsWhenUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"type":"sequential","name":"A","slug":"a","paths":["/media"]}]`), 0644))

	calls := 0
	w := New(path, time.Hour, func(defs []channel.Definition) { calls++ })
	w.Start()
	defer w.Stop()

	w.CheckNow()
	assert.Equal(t, 0, calls)
}

func TestCheckNowKeepsPriorStateOnInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"type":"sequential","name":"A","slug":"a","paths":["/media"]}]`), 0644))

	calls := 0
	w := New(path, time.Hour, func(defs []channel.Definition) { calls++ })
	w.Start()
	defer w.Stop()

	future := time.Now().Add(time.Minute)
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))
	require.NoError(t, os.Chtimes(path, future, future))

	w.CheckNow()
	assert.Equal(t, 0, calls)
}
