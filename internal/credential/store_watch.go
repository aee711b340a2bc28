package credential

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/constants"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// pathSource is implemented by sources backed by a single file.
type pathSource interface {
	Path() string
}

// Watch reloads the credential when another process rewrites the backing
// file, e.g. a login in a second terminal. Only file sources can be watched.
// It returns once the watcher is running; ctx stops it.
func (s *Store) Watch(ctx context.Context) error {
	ps, ok := s.source.(pathSource)
	if !ok {
		return fmt.Errorf("credential source %s cannot be watched", s.source.Name())
	}
	path := ps.Path()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create credential watcher: %w", err)
	}
	// watch the directory so atomic renames and removals are seen
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	log.WithField("path", path).Info("credential store: watching for external changes")

	go s.watchLoop(ctx, watcher, path)
	return nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string) {
	defer watcher.Close()

	var timer *time.Timer
	var timerCh <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != path {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(constants.WatchDebounce)
				timerCh = timer.C
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(constants.WatchDebounce)
		case <-timerCh:
			s.reloadFromSource(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("credential watcher error")
		}
	}
}

func (s *Store) reloadFromSource(ctx context.Context) {
	loaded, err := s.source.Load(ctx)
	if err != nil {
		log.WithError(err).Warn("credential store: reload failed")
		return
	}
	next := Credential{}
	if loaded != nil {
		next = *loaded
	}
	if sameCredential(s.Snapshot(), next) {
		return
	}
	log.WithField("authenticated", next.AccessToken != "").Info("credential store: external change applied")
	s.apply(next)
}

func sameCredential(a, b Credential) bool {
	return a.AccessToken == b.AccessToken &&
		a.RefreshToken == b.RefreshToken &&
		a.ExpiresAt.Equal(b.ExpiresAt)
}
