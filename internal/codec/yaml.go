package codec

import (
	"fmt"
	"io"

	"familytree/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlFragment represents the YAML structure of a population file
type yamlFragment struct {
	People    []yamlPerson      `yaml:"people"`
	Relations []domain.Relation `yaml:"relations,omitempty"`
}

// yamlPerson keeps dates as YAML strings so that unquoted 1950-03-01
// values are not resolved to timestamps
type yamlPerson struct {
	ID       domain.PersonID   `yaml:"id,omitempty"`
	Name     string            `yaml:"name"`
	Gender   string            `yaml:"gender"`
	Born     yamlDate          `yaml:"born"`
	Died     yamlDate          `yaml:"died,omitempty"`
	Mother   domain.PersonID   `yaml:"mother,omitempty"`
	Father   domain.PersonID   `yaml:"father,omitempty"`
	Partner  domain.PersonID   `yaml:"partner,omitempty"`
	Parents  []domain.PersonID `yaml:"parents,omitempty,flow"`
	Children []domain.PersonID `yaml:"children,omitempty,flow"`
	Siblings []domain.PersonID `yaml:"siblings,omitempty,flow"`
}

// yamlDate decodes any scalar as its literal text
type yamlDate string

// UnmarshalYAML implements yaml.Unmarshaler
func (d *yamlDate) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: date must be a scalar", node.Line)
	}
	*d = yamlDate(node.Value)
	return nil
}

// Parse imports a population from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Fragment, error) {
	var yf yamlFragment
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&yf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	fragment := domain.NewFragment()
	for _, yp := range yf.People {
		fragment.AddPerson(domain.PersonEntry{
			ID:       yp.ID,
			Name:     yp.Name,
			Gender:   yp.Gender,
			Born:     string(yp.Born),
			Died:     string(yp.Died),
			Mother:   yp.Mother,
			Father:   yp.Father,
			Partner:  yp.Partner,
			Parents:  yp.Parents,
			Children: yp.Children,
			Siblings: yp.Siblings,
		})
	}
	fragment.Relations = yf.Relations

	return fragment, nil
}

// Export exports a population to YAML
func (c *YAMLCodec) Export(fragment *domain.Fragment, w io.Writer) error {
	yf := yamlFragment{
		People:    make([]yamlPerson, 0, len(fragment.People)),
		Relations: fragment.Relations,
	}

	for _, entry := range fragment.People {
		yf.People = append(yf.People, yamlPerson{
			ID:       entry.ID,
			Name:     entry.Name,
			Gender:   entry.Gender,
			Born:     yamlDate(entry.Born),
			Died:     yamlDate(entry.Died),
			Mother:   entry.Mother,
			Father:   entry.Father,
			Partner:  entry.Partner,
			Parents:  entry.Parents,
			Children: entry.Children,
			Siblings: entry.Siblings,
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&yf); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
