package routine

import (
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

// LoadRegistry reads a Registry from a YAML file mapping query names to SQL
// statements:
//
//	GET_USERS_LIST: |
//	  SELECT id, name FROM users WHERE city_id = :cityId
//	ADD_USER: |
//	  INSERT INTO users (name, city_id) VALUES (:name, :cityId)
func LoadRegistry(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read registry file %s", path)
	}

	registry := Registry{}
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, errors.Wrapf(err, "parse registry file %s", path)
	}

	return registry, nil
}
