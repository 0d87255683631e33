package dynsql

import (
	"os"
	"sync"

	"github.com/google/renameio"
	"gopkg.in/yaml.v2"
)

// YamlConfigStore persists an executor Config in a YAML file, so that
// deployments can adjust the routine name or default namespaces without a
// rebuild.
type YamlConfigStore struct {
	path   string
	config Config
	mu     sync.RWMutex
}

// NewYamlConfigStore creates a new YamlConfigStore backed by the given YAML
// file. A missing file yields the default configuration.
func NewYamlConfigStore(path string) (*YamlConfigStore, error) {
	config := DefaultConfig()

	_, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	}

	store := &YamlConfigStore{
		path:   path,
		config: config,
	}

	return store, nil
}

// Get the current configuration.
func (s *YamlConfigStore) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Set the configuration, writing the file atomically.
func (s *YamlConfigStore) Set(config Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	if err := renameio.WriteFile(s.path, data, 0600); err != nil {
		return err
	}

	s.config = config

	return nil
}
