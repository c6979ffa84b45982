package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/noemalabs/noema/pkg/noemamem"
)

type proceduresFile struct {
	Procedures []noemamem.ProcedureSpec `yaml:"procedures"`
}

// LoadProcedures reads operator procedure overrides from a YAML file.
// Missing path means no overrides.
func LoadProcedures(path string) ([]noemamem.ProcedureSpec, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read procedures file: %w", err)
	}

	var file proceduresFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse procedures file: %w", err)
	}

	for _, p := range file.Procedures {
		if p.Slug == "" {
			return nil, fmt.Errorf("procedure with empty slug in %s", path)
		}
	}

	return file.Procedures, nil
}
