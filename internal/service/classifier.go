package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/clientforge/ai-router/internal/models"
)

// ClassifyResult holds the outcome of rule-based classification.
type ClassifyResult struct {
	Category models.TaskCategory
	Reason   string
}

// Classifier performs rule-based prompt classification.
// Rules are evaluated in declaration order; within a rule, keywords are
// checked before patterns. The first predicate that matches decides the
// category. No rule matching yields the default category.
type Classifier struct {
	rules    []models.ClassificationRule
	compiled [][]*regexp.Regexp // per rule, same order as rule.Patterns
}

// NewClassifier creates a classifier from the rule list. An invalid
// regex is a configuration error and fails construction.
func NewClassifier(rules []models.ClassificationRule) (*Classifier, error) {
	compiled := make([][]*regexp.Regexp, len(rules))
	for i, rule := range rules {
		res := make([]*regexp.Regexp, 0, len(rule.Patterns))
		for _, pattern := range rule.Patterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("rule %q: invalid pattern %q: %w", rule.Category, pattern, err)
			}
			res = append(res, re)
		}
		compiled[i] = res
	}
	return &Classifier{rules: rules, compiled: compiled}, nil
}

// Classify evaluates the rules against the prompt. Classification is
// pure: the same prompt and rule set always produce the same category.
func (c *Classifier) Classify(prompt string) *ClassifyResult {
	if prompt == "" {
		return &ClassifyResult{
			Category: models.DefaultCategory,
			Reason:   "empty prompt",
		}
	}

	lower := strings.ToLower(prompt)
	for i, rule := range c.rules {
		// Keywords match case-insensitively as plain substrings.
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return &ClassifyResult{
					Category: rule.Category,
					Reason:   "keyword: " + kw,
				}
			}
		}
		for j, re := range c.compiled[i] {
			if re.MatchString(prompt) {
				return &ClassifyResult{
					Category: rule.Category,
					Reason:   "pattern: " + rule.Patterns[j],
				}
			}
		}
	}

	return &ClassifyResult{
		Category: models.DefaultCategory,
		Reason:   "no rule matched, using default",
	}
}

// Rules returns the rule list in evaluation order.
func (c *Classifier) Rules() []models.ClassificationRule {
	return c.rules
}
