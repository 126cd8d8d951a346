package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a pipeline definition file and decodes it by extension:
// .json, .yaml/.yml, or .hcl. The returned config is normalized but not
// validated; callers run Validate (or ExecutePipeline, which validates)
// themselves.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pipeline definition: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return Decode(data)
	case ".yaml", ".yml":
		return DecodeYAML(data)
	case ".hcl":
		return DecodeHCL(path, data)
	default:
		return nil, fmt.Errorf("unsupported pipeline definition format %q (want .json, .yaml or .hcl)", filepath.Ext(path))
	}
}

// Decode parses a JSON pipeline definition, the canonical wire format.
func Decode(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding JSON pipeline definition: %w", err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// DecodeYAML parses a YAML pipeline definition.
func DecodeYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding YAML pipeline definition: %w", err)
	}
	cfg.Normalize()
	return &cfg, nil
}
