package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ErrPluginNotFound is returned when a requested plugin cannot be found.
var ErrPluginNotFound = errors.New("plugin not found")

const manifestFile = "plugin.json"

// Manager keeps the plugins found in one directory.
type Manager struct {
	pluginDir string
	plugins   map[string]*Plugin
	mu        sync.RWMutex
}

// NewManager creates a new plugin Manager with the given plugin directory.
func NewManager(pluginDir string) *Manager {
	return &Manager{
		pluginDir: pluginDir,
		plugins:   make(map[string]*Plugin),
	}
}

// Discover rescans the plugin directory. Every subdirectory with a valid
// plugin.json becomes a plugin; broken manifests are logged and skipped.
// A missing directory simply yields no plugins.
func (m *Manager) Discover() error {
	entries, err := os.ReadDir(m.pluginDir)
	if errors.Is(err, os.ErrNotExist) {
		m.replace(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read plugin dir: %w", err)
	}

	found := make(map[string]*Plugin)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		p, err := loadPlugin(filepath.Join(m.pluginDir, entry.Name()))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			log.Printf("Skipping plugin %s: %v", entry.Name(), err)
			continue
		}
		found[p.Manifest.Name] = p
	}

	m.replace(found)
	return nil
}

func (m *Manager) replace(plugins map[string]*Plugin) {
	if plugins == nil {
		plugins = make(map[string]*Plugin)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plugins = plugins
}

// loadPlugin reads dir/plugin.json. It returns an os.ErrNotExist error
// when dir has no manifest.
func loadPlugin(dir string) (*Plugin, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	if manifest.Name == "" || manifest.Executable == "" {
		return nil, fmt.Errorf("manifest needs name and executable")
	}

	return &Plugin{
		Manifest:   manifest,
		Path:       dir,
		Executable: filepath.Join(dir, manifest.Executable),
	}, nil
}

// Get returns a plugin by name.
func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if p, ok := m.plugins[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrPluginNotFound, name)
}

// FindFor returns a plugin that supports the action. When preferred is
// set only that plugin is considered; otherwise the first by name wins.
func (m *Manager) FindFor(action, preferred string) (*Plugin, error) {
	if preferred != "" {
		p, err := m.Get(preferred)
		if err != nil {
			return nil, err
		}
		if !p.Supports(action) {
			return nil, fmt.Errorf("%w: %s does not handle %s", ErrPluginNotFound, preferred, action)
		}
		return p, nil
	}

	for _, p := range m.List() {
		if p.Supports(action) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: no plugin handles %s", ErrPluginNotFound, action)
}

// List returns the discovered plugins sorted by name.
func (m *Manager) List() []*Plugin {
	m.mu.RLock()
	plugins := make([]*Plugin, 0, len(m.plugins))
	for _, p := range m.plugins {
		plugins = append(plugins, p)
	}
	m.mu.RUnlock()

	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Manifest.Name < plugins[j].Manifest.Name
	})
	return plugins
}

// PluginDir returns the plugin directory path.
func (m *Manager) PluginDir() string {
	return m.pluginDir
}
