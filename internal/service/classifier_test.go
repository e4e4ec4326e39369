//go:build !integration && !e2e
// +build !integration,!e2e

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientforge/ai-router/internal/config"
	"github.com/clientforge/ai-router/internal/models"
)

func TestClassifier_BuiltinRules(t *testing.T) {
	classifier, err := NewClassifier(config.DefaultClassificationRules())
	require.NoError(t, err)

	tests := []struct {
		name     string
		prompt   string
		expected models.TaskCategory
	}{
		{"coding keyword", "please debug this for me", models.CategoryCoding},
		{"coding pattern", "Write a script that renames files", models.CategoryCoding},
		{"code fence", "what does this do?\n```\nSELECT 1\n```", models.CategoryCoding},
		{"reasoning keyword", "compare the two approaches", models.CategoryReasoning},
		{"reasoning pattern", "What would happen if the cache is cold?", models.CategoryReasoning},
		{"creative keyword", "write me a short story about a lighthouse", models.CategoryCreative},
		{"critical keyword", "we have a production incident right now", models.CategoryCritical},
		{"critical pattern", "delete all records older than a year", models.CategoryCritical},
		{"tenant keyword", "export the customer record for review", models.CategoryTenantRestricted},
		{"tenant pattern", "filter by tenant_id before aggregating", models.CategoryTenantRestricted},
		{"default chat", "hello, how are you today?", models.CategoryChat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifier.Classify(tt.prompt)
			assert.Equal(t, tt.expected, result.Category)
			assert.NotEmpty(t, result.Reason)
		})
	}
}

func TestClassifier_DeclarationOrderWins(t *testing.T) {
	classifier, err := NewClassifier(config.DefaultClassificationRules())
	require.NoError(t, err)

	// "refactor" (coding) and "crm contact" (tenant_restricted) both
	// match, but the coding rule is declared first.
	result := classifier.Classify("refactor the CRM contact module")
	assert.Equal(t, models.CategoryCoding, result.Category)
	assert.Equal(t, "keyword: refactor", result.Reason)
}

func TestClassifier_KeywordsBeforePatterns(t *testing.T) {
	rules := []models.ClassificationRule{
		{
			Category: models.CategoryCoding,
			Keywords: []string{"snippet"},
			Patterns: []string{`(?i)\bsnippet\b`},
		},
	}
	classifier, err := NewClassifier(rules)
	require.NoError(t, err)

	result := classifier.Classify("share a snippet please")
	assert.Equal(t, models.CategoryCoding, result.Category)
	assert.Equal(t, "keyword: snippet", result.Reason)
}

func TestClassifier_KeywordCaseInsensitive(t *testing.T) {
	classifier, err := NewClassifier(config.DefaultClassificationRules())
	require.NoError(t, err)

	result := classifier.Classify("DEBUG the login flow")
	assert.Equal(t, models.CategoryCoding, result.Category)
}

func TestClassifier_EmptyPrompt(t *testing.T) {
	classifier, err := NewClassifier(config.DefaultClassificationRules())
	require.NoError(t, err)

	result := classifier.Classify("")
	assert.Equal(t, models.DefaultCategory, result.Category)
	assert.Equal(t, "empty prompt", result.Reason)
}

func TestClassifier_Deterministic(t *testing.T) {
	classifier, err := NewClassifier(config.DefaultClassificationRules())
	require.NoError(t, err)

	prompt := "analyze this code and compare the implementations"
	first := classifier.Classify(prompt)
	for i := 0; i < 10; i++ {
		result := classifier.Classify(prompt)
		assert.Equal(t, first.Category, result.Category)
		assert.Equal(t, first.Reason, result.Reason)
	}
}

func TestNewClassifier_InvalidPattern(t *testing.T) {
	rules := []models.ClassificationRule{
		{
			Category: models.CategoryCoding,
			Patterns: []string{`(unbalanced`},
		},
	}
	_, err := NewClassifier(rules)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}
