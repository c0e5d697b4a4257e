package store

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Editors and other tools write files in several steps; collapse the burst
// into one notification.
const watchDebounce = 100 * time.Millisecond

// Watch reports external changes to the data files. It returns a channel
// that receives a signal whenever users, accounts, or the counter file is
// written, created, removed, or renamed by another program. The watcher
// stops when ctx is cancelled; the channel is never closed, so receivers
// should select on ctx as well.
//
// This exists for the interactive session to offer a reload when the files
// were edited out from under it; it does not make concurrent writers safe.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory rather than the files: rewrites go through a
	// temp-file rename, which replaces the inode a file watch is bound to.
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, err
	}

	changes := make(chan struct{}, 1)
	go s.runWatcher(ctx, watcher, changes)
	return changes, nil
}

func (s *Store) runWatcher(ctx context.Context, watcher *fsnotify.Watcher, changes chan<- struct{}) {
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
		watcher.Close()
	}()

	dataFiles := map[string]bool{
		UsersFile:    true,
		AccountsFile: true,
		CounterFile:  true,
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !dataFiles[filepath.Base(event.Name)] {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case changes <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.WithError(err).Debug("file watcher error")
		}
	}
}
