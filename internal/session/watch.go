package session

import (
	"time"

	"go.uber.org/zap"

	"github.com/koraenergy/kora-control/internal/watcher"
)

// Watch reloads the Manager whenever the credentials file at path changes
// on disk, so logins and logouts from other processes are picked up.
// The returned function stops watching.
func (m *Manager) Watch(path string, pollInterval time.Duration) (stop func(), err error) {
	w := watcher.New(path, pollInterval, func() {
		if err := m.Reload(); err != nil {
			m.log.Warn("session reload failed", zap.Error(err))
		}
	})
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w.Stop, nil
}
