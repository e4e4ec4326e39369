// Package models defines the domain models for the AI router service.
package models

import "time"

// TaskCategory classifies the intent of a prompt. The set is closed and
// known at startup; the classifier never produces a value outside it.
type TaskCategory string

const (
	CategoryCoding           TaskCategory = "coding"
	CategoryReasoning        TaskCategory = "reasoning"
	CategoryCreative         TaskCategory = "creative"
	CategoryCritical         TaskCategory = "critical"
	CategoryTenantRestricted TaskCategory = "tenant_restricted"
	CategoryChat             TaskCategory = "chat"
)

// DefaultCategory is assigned when no classification rule matches.
const DefaultCategory = CategoryChat

// AllCategories lists every category the classifier can produce, in
// policy-table order. The routing policy must cover all of them.
func AllCategories() []TaskCategory {
	return []TaskCategory{
		CategoryCoding,
		CategoryReasoning,
		CategoryCreative,
		CategoryCritical,
		CategoryTenantRestricted,
		CategoryChat,
	}
}

// ParseCategory resolves a caller-supplied category name. It reports
// false for anything outside the closed set.
func ParseCategory(s string) (TaskCategory, bool) {
	for _, c := range AllCategories() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// PrimaryMode selects which backend class a category prefers.
type PrimaryMode string

const (
	LocalPreferred  PrimaryMode = "local_preferred"
	RemotePreferred PrimaryMode = "remote_preferred"
)

// RemoteVendor identifies a remote completion backend. It is resolved once
// when the policy table loads, never re-inferred from model-id strings at
// call time.
type RemoteVendor string

const (
	VendorOpenAI    RemoteVendor = "openai"
	VendorAnthropic RemoteVendor = "anthropic"
)

// ExecutionMode reports where a completion actually ran.
type ExecutionMode string

const (
	ModeLocal           ExecutionMode = "local"
	ModeRemoteOpenAI    ExecutionMode = "remote_openai"
	ModeRemoteAnthropic ExecutionMode = "remote_anthropic"
)

// RemoteModeFor maps a vendor to its execution mode.
func RemoteModeFor(v RemoteVendor) ExecutionMode {
	if v == VendorAnthropic {
		return ModeRemoteAnthropic
	}
	return ModeRemoteOpenAI
}

// ClassificationRule binds a category to keyword and regex predicates.
// Rules are evaluated in declaration order; the first match wins.
type ClassificationRule struct {
	Category TaskCategory `yaml:"category" json:"category"`
	Keywords []string     `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Patterns []string     `yaml:"patterns,omitempty" json:"patterns,omitempty"`
}

// RemoteTarget names a remote fallback model together with its vendor.
type RemoteTarget struct {
	Vendor RemoteVendor `yaml:"vendor" json:"vendor"`
	Model  string       `yaml:"model" json:"model"`
}

// RoutingPolicyEntry is the static per-category routing configuration.
//
// ConfidenceThreshold is carried as configuration but no selection branch
// consults it; the rule classifier produces no confidence score.
type RoutingPolicyEntry struct {
	Category            TaskCategory  `yaml:"category" json:"category"`
	PrimaryMode         PrimaryMode   `yaml:"primary_mode" json:"primary_mode"`
	PreferredModels     []string      `yaml:"preferred_models" json:"preferred_models"`
	RemoteFallback      *RemoteTarget `yaml:"remote_fallback,omitempty" json:"remote_fallback,omitempty"`
	ConfidenceThreshold float64       `yaml:"confidence_threshold" json:"confidence_threshold"`
	PrivacyRestricted   bool          `yaml:"privacy_restricted" json:"privacy_restricted"`
}

// RoutingDecision is the outcome of model selection for a single call.
// It is built per request and never persisted; the audit log keeps its
// own flattened record.
type RoutingDecision struct {
	Model    string        `json:"model"`
	Mode     ExecutionMode `json:"execution_mode"`
	Category TaskCategory  `json:"category"`
	Reason   string        `json:"reason,omitempty"`
}

// RouteResult is the full response of a route call.
type RouteResult struct {
	ResponseText string        `json:"response_text"`
	Model        string        `json:"model"`
	Mode         ExecutionMode `json:"execution_mode"`
	Category     TaskCategory  `json:"category"`
}

// ValidationStatus reports the hybrid validation outcome.
type ValidationStatus string

const (
	ValidationCompleted ValidationStatus = "completed"
	ValidationSkipped   ValidationStatus = "skipped"
)

// Skip reasons attached to a hybrid result when validation did not run.
const (
	SkipReasonPrivacy            = "privacy"
	SkipReasonNoRemoteConfigured = "no_remote_configured"
	SkipReasonNoKey              = "no_key"
	SkipReasonValidationFailed   = "validation_failed"
)

// HybridResult is the response of a hybrid (local answer + remote
// critique) call. ValidationResponse and ValidationModel are set only
// when ValidationStatus is "completed".
type HybridResult struct {
	PrimaryResponse    string           `json:"primary_response"`
	PrimaryModel       string           `json:"primary_model"`
	Category           TaskCategory     `json:"category"`
	ValidationResponse string           `json:"validation_response,omitempty"`
	ValidationModel    string           `json:"validation_model,omitempty"`
	ValidationStatus   ValidationStatus `json:"validation_status"`
	Reason             string           `json:"reason,omitempty"`
}

// DecisionLogEntry is a routing audit record for insertion.
type DecisionLogEntry struct {
	RequestID        string
	Category         TaskCategory
	ModelName        string
	ExecutionMode    ExecutionMode
	PromptPreview    string // Truncated to 200 chars for display
	LatencyMs        float64
	Success          bool
	ErrorKind        string
	Hybrid           bool
	ValidationStatus string
}

// DecisionLog is a routing audit record read back from the database.
type DecisionLog struct {
	ID               int64         `json:"id"`
	RequestID        string        `json:"request_id"`
	Category         TaskCategory  `json:"category"`
	ModelName        string        `json:"model_name"`
	ExecutionMode    ExecutionMode `json:"execution_mode"`
	PromptPreview    string        `json:"prompt_preview,omitempty"`
	LatencyMs        float64       `json:"latency_ms"`
	Success          bool          `json:"success"`
	ErrorKind        string        `json:"error_kind,omitempty"`
	Hybrid           bool          `json:"hybrid"`
	ValidationStatus string        `json:"validation_status,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// DecisionStatistics summarizes the audit log for the stats endpoint.
type DecisionStatistics struct {
	TotalDecisions int64                  `json:"total_decisions"`
	SuccessRate    float64                `json:"success_rate"`
	AvgLatencyMs   float64                `json:"avg_latency_ms"`
	ByCategory     map[TaskCategory]int64 `json:"by_category"`
	ByMode         map[ExecutionMode]int64 `json:"by_mode"`
}

// CatalogModel is one entry from the local runtime's model listing.
type CatalogModel struct {
	ID string `json:"id"`
}
