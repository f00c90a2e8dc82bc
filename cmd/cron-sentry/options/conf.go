package options

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// fileConfig holds the settings a config file may override. The historical
// file format is a single bare dsn line; a YAML mapping with these keys is
// also accepted.
type fileConfig struct {
	Dsn             string `mapstructure:"dsn"`
	StringMaxLength int    `mapstructure:"string_max_length"`
	Quiet           bool   `mapstructure:"quiet"`
}

// loadConfFile reads the first existing config file. It returns nil when no
// file exists.
func loadConfFile(paths []string) (*fileConfig, error) {
	for _, path := range paths {
		if !fileExists(path) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("Error reading the config file %s: %w", path, err)
		}

		conf, err := parseConfFile(data)
		if err != nil {
			return nil, fmt.Errorf("Error parsing the config file %s: %w", path, err)
		}

		logrus.WithField("path", path).Debug("Loaded the config file")
		return conf, nil
	}
	return nil, nil
}

func parseConfFile(data []byte) (*fileConfig, error) {
	var document any
	if err := yaml.Unmarshal(data, &document); err != nil {
		// Not YAML at all, treat the whole content as a bare dsn.
		return &fileConfig{Dsn: strings.TrimSpace(string(data))}, nil
	}

	switch value := document.(type) {
	case map[string]any:
		var conf fileConfig
		if err := mapstructure.Decode(value, &conf); err != nil {
			return nil, fmt.Errorf("Error decoding the config file: %w", err)
		}
		return &conf, nil
	case string:
		return &fileConfig{Dsn: strings.TrimSpace(value)}, nil
	case nil:
		return &fileConfig{}, nil
	default:
		return nil, fmt.Errorf("Invalid config file content: expected a dsn or a mapping")
	}
}

// Returns true if the specified file exists and is actually a file (not a
// directory)
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}
