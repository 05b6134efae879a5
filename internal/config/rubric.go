// Package config provides configuration loading utilities.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rubric carries deployment-tunable scoring defaults: the weights applied
// when a job does not specify its own, and the static questions used when
// the model returns nothing parseable.
type Rubric struct {
	MatcherWeights    map[string]float64 `yaml:"matcher_weights"`
	FinalWeights      map[string]float64 `yaml:"final_weights"`
	FallbackQuestions []string           `yaml:"fallback_questions"`
}

// DefaultRubric returns the built-in rubric used when no file is configured.
func DefaultRubric() Rubric {
	return Rubric{
		MatcherWeights: map[string]float64{"skills": 0.7, "experience": 0.3},
		FinalWeights:   map[string]float64{"skills": 0.5, "experience": 0.3, "interview": 0.2},
		FallbackQuestions: []string{
			"Tell me about your experience with the technologies mentioned in this role.",
			"Describe a challenging project you've worked on and how you solved it.",
			"How do you approach learning new technologies?",
			"Walk me through your problem-solving process for complex technical issues.",
			"What interests you most about this position?",
		},
	}
}

// LoadRubric reads a rubric YAML file, filling any missing sections from the
// defaults. An empty path returns the defaults unchanged.
func LoadRubric(path string) (Rubric, error) {
	r := DefaultRubric()
	if path == "" {
		return r, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Rubric{}, fmt.Errorf("op=config.LoadRubric: %w", err)
	}
	var file Rubric
	if err := yaml.Unmarshal(b, &file); err != nil {
		return Rubric{}, fmt.Errorf("op=config.LoadRubric: parse %s: %w", path, err)
	}
	if len(file.MatcherWeights) > 0 {
		r.MatcherWeights = file.MatcherWeights
	}
	if len(file.FinalWeights) > 0 {
		r.FinalWeights = file.FinalWeights
	}
	if len(file.FallbackQuestions) > 0 {
		r.FallbackQuestions = file.FallbackQuestions
	}
	return r, nil
}
