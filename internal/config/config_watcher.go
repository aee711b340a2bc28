package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/constants"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

func (cm *Manager) startWatcher() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.WithError(err).Warn("failed to create file watcher, falling back to polling")
		cm.startPollingWatcher()
		return
	}

	// Watch the directory to catch atomic writes (rename operations)
	configDir := filepath.Dir(cm.configPath)
	if err := watcher.Add(configDir); err != nil {
		log.WithError(err).WithField("dir", configDir).Warn("failed to watch config directory, falling back to polling")
		watcher.Close()
		cm.startPollingWatcher()
		return
	}
	target := filepath.Clean(cm.configPath)
	log.WithField("path", cm.configPath).Debug("file watcher started using fsnotify")

	go func() {
		defer watcher.Close()

		var debounceTimer *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(constants.WatchDebounce, cm.checkAndReload)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Warn("file watcher error")

			case <-cm.stopCh:
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return
			}
		}
	}()
}

// startPollingWatcher is a fallback when fsnotify is not available
func (cm *Manager) startPollingWatcher() {
	ticker := time.NewTicker(5 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cm.checkAndReload()
			case <-cm.stopCh:
				return
			}
		}
	}()
}

func (cm *Manager) checkAndReload() {
	info, err := os.Stat(cm.configPath)
	if err != nil {
		return
	}
	cm.mu.RLock()
	lastMod := cm.lastMod
	cm.mu.RUnlock()
	if !info.ModTime().After(lastMod) {
		return
	}

	next, err := Load(cm.configPath)
	if err != nil {
		log.WithError(err).WithField("path", cm.configPath).Warn("failed to reload config, keeping previous")
		return
	}
	cm.mu.Lock()
	cm.lastMod = info.ModTime()
	cm.mu.Unlock()
	cm.replace(next)
}
