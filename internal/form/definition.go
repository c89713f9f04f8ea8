package form

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Definition is the authorable YAML shape of a form. Server-managed fields
// (id, slug, publish state, timestamps) have no place here.
type Definition struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	ClientName  string    `yaml:"client_name"`
	Sections    []Section `yaml:"sections"`
}

// ParseDefinition decodes a YAML form definition and validates the result.
func ParseDefinition(data []byte) (*Form, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing form definition: %w", err)
	}
	f := &Form{
		Title:       def.Title,
		Description: def.Description,
		ClientName:  def.ClientName,
		Sections:    def.Sections,
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid form definition: %w", err)
	}
	return f, nil
}
