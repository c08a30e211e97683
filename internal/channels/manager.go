package channels

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Manager owns the registered channels and drives their lifecycle at process
// start and stop. Channels start in registration order and stop in reverse.
type Manager struct {
	order    []string
	channels map[string]Channel
	mu       sync.RWMutex
}

// NewManager creates an empty channel manager.
func NewManager() *Manager {
	return &Manager{
		channels: make(map[string]Channel),
	}
}

// RegisterChannel adds a channel. Registering a name twice replaces the
// channel but keeps its original position.
func (m *Manager) RegisterChannel(name string, channel Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.channels[name]; !exists {
		m.order = append(m.order, name)
	}
	m.channels[name] = channel
}

// GetEnabledChannels returns the names of registered channels in start order.
func (m *Manager) GetEnabledChannels() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, len(m.order))
	copy(names, m.order)
	return names
}

// GetStatus returns the running status of each channel.
func (m *Manager) GetStatus() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	status := make(map[string]interface{}, len(m.channels))
	for name, ch := range m.channels {
		status[name] = map[string]interface{}{
			"running": ch.IsRunning(),
		}
	}
	return status
}

// StartAll starts every channel. The first failure stops the channels that
// already started and is returned: the process cannot serve without them.
func (m *Manager) StartAll(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.order) == 0 {
		slog.Warn("no channels enabled")
		return nil
	}

	slog.Info("starting all channels")

	for i, name := range m.order {
		slog.Info("starting channel", "channel", name)
		if err := m.channels[name].Start(ctx); err != nil {
			slog.Error("failed to start channel", "channel", name, "error", err)
			m.stopLocked(ctx, m.order[:i])
			return fmt.Errorf("start channel %s: %w", name, err)
		}
	}

	slog.Info("all channels started")
	return nil
}

// StopAll stops every channel. Failures are logged and do not stop the loop.
func (m *Manager) StopAll(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	slog.Info("stopping all channels")
	m.stopLocked(ctx, m.order)
	slog.Info("all channels stopped")
	return nil
}

func (m *Manager) stopLocked(ctx context.Context, names []string) {
	for i := len(names) - 1; i >= 0; i-- {
		name := names[i]
		slog.Info("stopping channel", "channel", name)
		if err := m.channels[name].Stop(ctx); err != nil {
			slog.Error("error stopping channel", "channel", name, "error", err)
		}
	}
}
