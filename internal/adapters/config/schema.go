package config

import (
	"time"

	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Tgrfile represents the structure of the tgr.yaml configuration file.
type Tgrfile struct {
	Version     string              `yaml:"version" validate:"omitempty,oneof=1"`
	Cache       string              `yaml:"cache"`
	Parallelism int                 `yaml:"parallelism" validate:"gte=0"`
	Locks       LocksDTO            `yaml:"locks"`
	Parameters  map[string]any      `yaml:"parameters"`
	Artifacts   map[string]string   `yaml:"artifacts" validate:"dive,keys,required,endkeys,required"`
	Tasks       map[string]*TaskDTO `yaml:"tasks" validate:"dive,required"`
}

// LocksDTO tunes lock acquisition.
type LocksDTO struct {
	RetryInterval time.Duration `yaml:"retryInterval" validate:"gte=0"`
	Timeout       time.Duration `yaml:"timeout" validate:"gte=0"`
}

// TaskDTO represents a task definition in the configuration.
type TaskDTO struct {
	Type         string            `yaml:"type" validate:"required"`
	CacheVersion int               `yaml:"cacheVersion" validate:"gte=0"`
	Outputs      map[string]string `yaml:"outputs" validate:"dive,keys,required,endkeys,required"`
	Inputs       InputsDTO         `yaml:"inputs" validate:"dive"`
}

// InputDTO is one input declaration. Exactly one form must be set.
type InputDTO struct {
	Value       any        `yaml:"value"`
	File        string     `yaml:"file"`
	Sensitivity string     `yaml:"sensitivity" validate:"omitempty,oneof=absolute name none"`
	Task        string     `yaml:"task"`
	Output      string     `yaml:"output"`
	Files       []string   `yaml:"files"`
	LibraryList string     `yaml:"libraryList"`
	Lists       []InputDTO `yaml:"lists" validate:"dive"`
	Parameter   string     `yaml:"parameter"`
	Kind        string     `yaml:"kind" validate:"omitempty,oneof=string int bool float list"`
	Default     any        `yaml:"default"`
}

// NamedInput is an InputDTO with the key it was declared under.
type NamedInput struct {
	Name     string
	InputDTO `yaml:",inline"`
}

// InputsDTO keeps inputs in the order they appear in the file.
type InputsDTO []NamedInput

// UnmarshalYAML decodes a mapping of input name to declaration, preserving key order.
func (in *InputsDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return zerr.With(domain.ErrInvalidInput, "line", node.Line)
	}

	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if seen[name] {
			return zerr.With(domain.ErrInvalidInput, "duplicate", name)
		}
		seen[name] = true

		var dto InputDTO
		if err := node.Content[i+1].Decode(&dto); err != nil {
			return err
		}
		*in = append(*in, NamedInput{Name: name, InputDTO: dto})
	}
	return nil
}
