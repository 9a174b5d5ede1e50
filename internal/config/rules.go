package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"impactjobs-engine/internal/classify"
)

// OverlayRules returns the built-in classifier rules with the YAML file at
// path decoded over them. Each key given in the file replaces that value, so
// a list in the file replaces the built-in list. Keys the file leaves out,
// including sibling keys inside a nested section, keep their defaults.
func OverlayRules(path string) (classify.Rules, error) {
	rules := classify.DefaultRules()
	if strings.TrimSpace(path) == "" {
		return rules, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("rules read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &rules); err != nil {
		return classify.DefaultRules(), fmt.Errorf("rules parse %s: %w", path, err)
	}
	if len(rules.ImpactKeywords) == 0 {
		return classify.DefaultRules(), fmt.Errorf("rules %s: impact_keywords must not be empty", path)
	}
	return rules, nil
}
