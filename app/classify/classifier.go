package classify

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Ho-Thien-Sinh/news-crawler/app/categories"
)

// KeywordGroup is one weighted group of keywords inside a category rule.
type KeywordGroup struct {
	Keywords []string `yaml:"keywords"`
	Weight   int      `yaml:"weight"`
}

// Rule maps a canonical category name to its keyword groups and the image-URL
// path fragments used as a tie-breaking signal.
type Rule struct {
	Category       string         `yaml:"category"`
	Groups         []KeywordGroup `yaml:"groups"`
	ImageFragments []string       `yaml:"image_fragments"`
}

const (
	titleMultiplier = 3
	bodyMultiplier  = 1
	imageBonus      = 5
	minScore        = 3
)

// Classifier assigns a canonical category via weighted keyword scoring. It is
// a pure function of its rule table: no I/O, deterministic for a given input.
type Classifier struct {
	rules []Rule
}

// New builds a classifier over the embedded default rules.
func New() *Classifier {
	return &Classifier{rules: defaultRules}
}

// NewFromFile loads a YAML rule table, replacing the embedded defaults. Rule
// order in the file is significant: it decides ties.
func NewFromFile(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var doc struct {
		Rules []Rule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("rules file %s defines no rules", path)
	}

	for i, r := range doc.Rules {
		if r.Category == "" {
			return nil, fmt.Errorf("rule at index %d has no category", i)
		}
	}

	return &Classifier{rules: doc.Rules}, nil
}

// Run scores every category and returns the winner's display name. Title
// matches count triple (titles are the stronger signal); an image URL
// containing one of the category's known path fragments adds a flat bonus.
// Below the minimum score the default category wins. Ties resolve to the
// first rule in declared order, an arbitrary but fixed contract.
func (c *Classifier) Run(title, body, imageURL string) string {
	title = strings.ToLower(title)
	body = strings.ToLower(body)
	imageURL = strings.ToLower(imageURL)

	best := categories.DefaultName
	bestScore := 0

	for _, rule := range c.rules {
		score := c.score(rule, title, body, imageURL)
		if score > bestScore {
			best = rule.Category
			bestScore = score
		}
	}

	if bestScore < minScore {
		return categories.DefaultName
	}
	return best
}

func (c *Classifier) score(rule Rule, title, body, imageURL string) int {
	score := 0
	for _, group := range rule.Groups {
		for _, kw := range group.Keywords {
			kw = strings.ToLower(kw)
			if kw == "" {
				continue
			}
			if strings.Contains(title, kw) {
				score += group.Weight * titleMultiplier
			}
			if strings.Contains(body, kw) {
				score += group.Weight * bodyMultiplier
			}
		}
	}

	if imageURL != "" {
		for _, frag := range rule.ImageFragments {
			if frag != "" && strings.Contains(imageURL, strings.ToLower(frag)) {
				score += imageBonus
				break
			}
		}
	}
	return score
}
