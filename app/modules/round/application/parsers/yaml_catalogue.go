package parsers

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
)

//go:embed default_catalogue.yaml
var defaultCatalogue []byte

type yamlCatalogue struct {
	Rounds []yamlRound `yaml:"rounds"`
}

type yamlRound struct {
	Name        string        `yaml:"name"`
	DisplayName string        `yaml:"display_name"`
	Outdoor     bool          `yaml:"outdoor"`
	Metric      bool          `yaml:"metric"`
	ArrowCounts []int         `yaml:"arrow_counts"`
	FaceSizes   []int         `yaml:"face_sizes"`
	SubTypes    []yamlSubType `yaml:"sub_types"`
}

type yamlSubType struct {
	Name      string `yaml:"name"`
	Distances []int  `yaml:"distances"`
}

// ParseYAML reads a YAML catalogue. Definitions are returned unvalidated.
func ParseYAML(data []byte) ([]rounddomain.RoundDefinition, error) {
	var doc yamlCatalogue
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML catalogue: %w", err)
	}
	if len(doc.Rounds) == 0 {
		return nil, ErrEmptyCatalogue
	}

	defs := make([]rounddomain.RoundDefinition, 0, len(doc.Rounds))
	for _, r := range doc.Rounds {
		def := rounddomain.RoundDefinition{
			Name:        r.Name,
			DisplayName: r.DisplayName,
			IsOutdoor:   r.Outdoor,
			IsMetric:    r.Metric,
			ArrowCounts: r.ArrowCounts,
			FaceSizes:   r.FaceSizes,
		}
		for _, st := range r.SubTypes {
			def.SubTypes = append(def.SubTypes, rounddomain.SubTypeDefinition{Name: st.Name, Distances: st.Distances})
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// DefaultCatalogue returns the built-in catalogue of common rounds.
func DefaultCatalogue() ([]rounddomain.RoundDefinition, error) {
	return ParseYAML(defaultCatalogue)
}
