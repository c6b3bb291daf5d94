package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// decoders maps a lower-cased file extension to its document decoder.
var decoders = map[string]func([]byte) (Config, error){
	".yaml": FromYAML,
	".yml":  FromYAML,
	".json": FromJSON,
}

// FromFile loads a variables or settings document from path. The decoder
// is picked by extension: .yaml, .yml or .json.
func FromFile(path string) (Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return Config{}, fmt.Errorf("%s: unsupported variables file extension %q", path, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read variables file: %w", err)
	}
	cfg, err := decode(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// FromYAML decodes a YAML mapping of variables. An empty document yields
// an empty Config.
func FromYAML(data []byte) (Config, error) {
	var vars map[string]any
	if err := yaml.Unmarshal(data, &vars); err != nil {
		return Config{}, fmt.Errorf("decode YAML variables: %w", err)
	}
	return New(vars), nil
}

// FromJSON decodes a JSON object of variables.
func FromJSON(data []byte) (Config, error) {
	var vars map[string]any
	if err := json.Unmarshal(data, &vars); err != nil {
		return Config{}, fmt.Errorf("decode JSON variables: %w", err)
	}
	return New(vars), nil
}
