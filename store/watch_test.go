package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

// TestWatch_SignalsOnDataFileChange verifies an external write to a data
// file produces exactly one debounced notification.
func TestWatch_SignalsOnDataFileChange(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := s.Watch(ctx)
	assert.NoError(t, err)

	writeLines(t, filepath.Join(s.Dir(), UsersFile), "external edit")

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change notification")
	}
}

// TestWatch_IgnoresUnrelatedFiles verifies scratch files in the data
// directory do not trigger notifications.
func TestWatch_IgnoresUnrelatedFiles(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := s.Watch(ctx)
	assert.NoError(t, err)

	assert.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.md"), []byte("scratch"), 0o644))

	select {
	case <-changes:
		t.Fatal("unrelated file should not notify")
	case <-time.After(500 * time.Millisecond):
	}
}

// TestWatch_StopsOnCancel verifies cancelling the context shuts the watcher
// down without closing the channel out from under receivers.
func TestWatch_StopsOnCancel(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	changes, err := s.Watch(ctx)
	assert.NoError(t, err)

	cancel()
	time.Sleep(50 * time.Millisecond)

	select {
	case _, ok := <-changes:
		assert.True(t, ok, "the channel must stay open after cancel")
	default:
	}
}
