package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/clientforge/ai-router/internal/models"
)

// PolicyDocument is the on-disk routing policy format. Both sections are
// optional; an absent section falls back to the built-in defaults.
type PolicyDocument struct {
	Rules    []models.ClassificationRule `yaml:"rules"`
	Policies []models.RoutingPolicyEntry `yaml:"policies"`
}

// DefaultClassificationRules returns the built-in classifier rule set.
// Order matters: rules are evaluated top to bottom and the first match
// wins, so coding outranks tenant_restricted for prompts that hit both.
func DefaultClassificationRules() []models.ClassificationRule {
	return []models.ClassificationRule{
		{
			Category: models.CategoryCoding,
			Keywords: []string{
				"code", "function", "debug", "refactor", "implement",
				"compile", "typescript", "python", "golang", "sql query",
				"unit test", "stack trace", "api endpoint",
			},
			Patterns: []string{
				`(?i)\bwrite (a |an |some )?(script|program|class|method)\b`,
				`(?i)\bfix (this|the|my) (bug|error|test)\b`,
				"```",
			},
		},
		{
			Category: models.CategoryReasoning,
			Keywords: []string{
				"analyze", "compare", "evaluate", "trade-off", "tradeoffs",
				"step by step", "pros and cons", "why does", "explain the difference",
			},
			Patterns: []string{
				`(?i)\bwhat (would|will) happen if\b`,
				`(?i)\breason (about|through)\b`,
			},
		},
		{
			Category: models.CategoryCreative,
			Keywords: []string{
				"story", "poem", "slogan", "brainstorm", "creative",
				"marketing copy", "blog post", "song",
			},
			Patterns: []string{
				`(?i)\bwrite (a |an )?(tagline|haiku|limerick)\b`,
			},
		},
		{
			Category: models.CategoryCritical,
			Keywords: []string{
				"production incident", "outage", "data loss", "security vulnerability",
				"legal", "compliance", "financial report", "irreversible",
			},
			Patterns: []string{
				`(?i)\b(delete|drop|wipe) (all|every|the entire)\b`,
			},
		},
		{
			Category: models.CategoryTenantRestricted,
			Keywords: []string{
				"tenant", "customer record", "crm contact", "pii",
				"personal data", "account holder",
			},
			Patterns: []string{
				`(?i)\btenant[-_ ]?(id|data|scope)\b`,
			},
		},
	}
}

// DefaultRoutingPolicies returns the built-in per-category policy table.
// Every category the classifier can produce has an entry.
func DefaultRoutingPolicies() []models.RoutingPolicyEntry {
	return []models.RoutingPolicyEntry{
		{
			Category:    models.CategoryCoding,
			PrimaryMode: models.LocalPreferred,
			PreferredModels: []string{
				"qwen2.5-coder-32b-instruct",
				"qwen2.5-coder-14b-instruct",
				"codestral",
			},
			RemoteFallback:      &models.RemoteTarget{Vendor: models.VendorOpenAI, Model: "gpt-4o"},
			ConfidenceThreshold: 0.75,
		},
		{
			Category:    models.CategoryReasoning,
			PrimaryMode: models.LocalPreferred,
			PreferredModels: []string{
				"qwq-32b",
				"deepseek-r1-distill-qwen-32b",
			},
			RemoteFallback:      &models.RemoteTarget{Vendor: models.VendorOpenAI, Model: "o3-mini"},
			ConfidenceThreshold: 0.7,
		},
		{
			Category:    models.CategoryCreative,
			PrimaryMode: models.LocalPreferred,
			PreferredModels: []string{
				"gemma-3-27b-it",
				"mistral-small",
			},
			RemoteFallback:      &models.RemoteTarget{Vendor: models.VendorAnthropic, Model: "claude-sonnet-4-20250514"},
			ConfidenceThreshold: 0.6,
		},
		{
			Category:    models.CategoryCritical,
			PrimaryMode: models.RemotePreferred,
			PreferredModels: []string{
				"qwq-32b",
			},
			RemoteFallback:      &models.RemoteTarget{Vendor: models.VendorAnthropic, Model: "claude-sonnet-4-20250514"},
			ConfidenceThreshold: 0.9,
		},
		{
			Category:    models.CategoryTenantRestricted,
			PrimaryMode: models.LocalPreferred,
			PreferredModels: []string{
				"qwen2.5-coder-32b-instruct",
				"gemma-3-27b-it",
			},
			RemoteFallback:      nil,
			ConfidenceThreshold: 0.8,
			PrivacyRestricted:   true,
		},
		{
			Category:    models.CategoryChat,
			PrimaryMode: models.LocalPreferred,
			PreferredModels: []string{
				"gemma-3-27b-it",
				"llama-3.3-70b-instruct",
			},
			RemoteFallback:      &models.RemoteTarget{Vendor: models.VendorOpenAI, Model: "gpt-4o-mini"},
			ConfidenceThreshold: 0.5,
		},
	}
}

// LoadPolicyDocument reads the policy YAML at path and merges it over the
// built-in defaults. A missing file is not an error; a present but
// unparsable file is.
func LoadPolicyDocument(path string) (*PolicyDocument, error) {
	doc := &PolicyDocument{
		Rules:    DefaultClassificationRules(),
		Policies: DefaultRoutingPolicies(),
	}
	if path == "" {
		return doc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	var fileDoc PolicyDocument
	if err := yaml.Unmarshal(data, &fileDoc); err != nil {
		return nil, fmt.Errorf("parse policy file %s: %w", path, err)
	}

	// A section present in the file replaces the defaults wholesale.
	// Partial merges would make rule order ambiguous.
	if len(fileDoc.Rules) > 0 {
		doc.Rules = fileDoc.Rules
	}
	if len(fileDoc.Policies) > 0 {
		doc.Policies = fileDoc.Policies
	}
	return doc, nil
}
