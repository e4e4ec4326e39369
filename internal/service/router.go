package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clientforge/ai-router/internal/backend"
	"github.com/clientforge/ai-router/internal/catalog"
	"github.com/clientforge/ai-router/internal/models"
	"github.com/clientforge/ai-router/internal/repository"
)

// Router ties classification, policy lookup, selection, and invocation
// together. One Router serves all requests; it holds no per-request
// state.
type Router struct {
	classifier *Classifier
	policies   *PolicyTable
	selector   *Selector
	catalog    catalog.Lister
	backends   map[models.ExecutionMode]backend.Invoker
	decisions  repository.DecisionLogRepository // nil disables auditing
	logger     *zap.Logger
}

// NewRouter creates a Router. backends must contain an entry for
// ModeLocal; remote modes are present only when their keys are
// configured, which selection already guarantees.
func NewRouter(
	classifier *Classifier,
	policies *PolicyTable,
	selector *Selector,
	lister catalog.Lister,
	backends map[models.ExecutionMode]backend.Invoker,
	decisions repository.DecisionLogRepository,
	logger *zap.Logger,
) *Router {
	return &Router{
		classifier: classifier,
		policies:   policies,
		selector:   selector,
		catalog:    lister,
		backends:   backends,
		decisions:  decisions,
		logger:     logger,
	}
}

// Classify runs classification only, without touching the catalog.
func (r *Router) Classify(prompt string) *ClassifyResult {
	return r.classifier.Classify(prompt)
}

// Policies exposes the validated policy table.
func (r *Router) Policies() *PolicyTable {
	return r.policies
}

// Route selects a model against the live catalog for the prompt's
// category and executes the completion. An explicit category skips
// classification; forceLocal restricts selection to the local runtime
// regardless of policy.
func (r *Router) Route(ctx context.Context, prompt string, category models.TaskCategory, forceLocal bool) (*models.RouteResult, error) {
	start := time.Now()
	requestID := uuid.New().String()

	category = r.resolveCategory(prompt, category)
	policy, ok := r.policies.PolicyFor(category)
	if !ok {
		// The table is validated for total coverage at startup.
		return nil, &models.NoModelAvailableError{Category: category, Detail: "no policy"}
	}

	catalogList := r.listCatalog(ctx)

	decision, err := r.selector.Select(policy, catalogList, forceLocal)
	if err != nil {
		r.audit(ctx, requestID, category, "", "", prompt, start, false, errorKind(err), false, "")
		return nil, err
	}

	r.logger.Info("routing decision",
		zap.String("request_id", requestID),
		zap.String("category", string(decision.Category)),
		zap.String("model", decision.Model),
		zap.String("mode", string(decision.Mode)),
		zap.String("reason", decision.Reason))

	text, err := r.invoke(ctx, decision, prompt)
	if err != nil {
		r.audit(ctx, requestID, decision.Category, decision.Model, string(decision.Mode), prompt, start, false, errorKind(err), false, "")
		return nil, err
	}

	r.audit(ctx, requestID, decision.Category, decision.Model, string(decision.Mode), prompt, start, true, "", false, "")
	return &models.RouteResult{
		ResponseText: text,
		Model:        decision.Model,
		Mode:         decision.Mode,
		Category:     decision.Category,
	}, nil
}

// RouteHybrid answers locally and then asks the category's remote
// fallback to critique the local answer. The local answer is the
// primary result; a validation failure downgrades to a skip, it never
// discards the primary.
func (r *Router) RouteHybrid(ctx context.Context, prompt string, category models.TaskCategory) (*models.HybridResult, error) {
	start := time.Now()
	requestID := uuid.New().String()

	category = r.resolveCategory(prompt, category)
	policy, ok := r.policies.PolicyFor(category)
	if !ok {
		return nil, &models.NoModelAvailableError{Category: category, Detail: "no policy"}
	}

	catalogList := r.listCatalog(ctx)

	decision, err := r.selector.Select(policy, catalogList, true)
	if err != nil {
		r.audit(ctx, requestID, category, "", "", prompt, start, false, errorKind(err), true, "")
		return nil, err
	}

	primaryText, err := r.invoke(ctx, decision, prompt)
	if err != nil {
		r.audit(ctx, requestID, decision.Category, decision.Model, string(decision.Mode), prompt, start, false, errorKind(err), true, "")
		return nil, err
	}

	result := &models.HybridResult{
		PrimaryResponse: primaryText,
		PrimaryModel:    decision.Model,
		Category:        decision.Category,
	}
	r.validate(ctx, policy, prompt, primaryText, result)

	r.audit(ctx, requestID, decision.Category, decision.Model, string(decision.Mode), prompt, start, true, "", true, string(result.ValidationStatus))
	return result, nil
}

// resolveCategory honors an explicit category and classifies otherwise.
// Callers validate explicit categories before they reach the router.
func (r *Router) resolveCategory(prompt string, override models.TaskCategory) models.TaskCategory {
	if override != "" {
		return override
	}
	return r.classifier.Classify(prompt).Category
}

// validate fills the validation fields of a hybrid result. Every exit
// path sets ValidationStatus; skips carry a reason.
func (r *Router) validate(ctx context.Context, policy models.RoutingPolicyEntry, prompt, answer string, result *models.HybridResult) {
	if policy.PrivacyRestricted {
		result.ValidationStatus = models.ValidationSkipped
		result.Reason = models.SkipReasonPrivacy
		return
	}
	if policy.RemoteFallback == nil {
		result.ValidationStatus = models.ValidationSkipped
		result.Reason = models.SkipReasonNoRemoteConfigured
		return
	}

	vendor := policy.RemoteFallback.Vendor
	invoker, ok := r.backends[models.RemoteModeFor(vendor)]
	if !ok {
		result.ValidationStatus = models.ValidationSkipped
		result.Reason = models.SkipReasonNoKey
		return
	}

	critique, err := invoker.Complete(ctx, policy.RemoteFallback.Model, BuildValidationPrompt(prompt, answer))
	if err != nil {
		r.logger.Warn("hybrid validation failed",
			zap.String("model", policy.RemoteFallback.Model),
			zap.Error(err))
		result.ValidationStatus = models.ValidationSkipped
		result.Reason = models.SkipReasonValidationFailed
		return
	}

	result.ValidationStatus = models.ValidationCompleted
	result.ValidationResponse = critique
	result.ValidationModel = policy.RemoteFallback.Model
}

// listCatalog fetches the live catalog. An unreachable runtime is not
// fatal here: selection proceeds against an empty catalog so the remote
// fallback still gets its chance.
func (r *Router) listCatalog(ctx context.Context) []models.CatalogModel {
	list, err := r.catalog.List(ctx)
	if err != nil {
		r.logger.Warn("catalog listing failed, treating as empty", zap.Error(err))
		return nil
	}
	return list
}

func (r *Router) invoke(ctx context.Context, decision *models.RoutingDecision, prompt string) (string, error) {
	invoker, ok := r.backends[decision.Mode]
	if !ok {
		return "", &models.CompletionError{
			Model: decision.Model,
			Mode:  decision.Mode,
			Err:   errors.New("no backend registered for mode"),
		}
	}
	return invoker.Complete(ctx, decision.Model, prompt)
}

func (r *Router) audit(
	ctx context.Context,
	requestID string,
	category models.TaskCategory,
	model, mode, prompt string,
	start time.Time,
	success bool,
	errKind string,
	hybrid bool,
	validationStatus string,
) {
	if r.decisions == nil {
		return
	}
	entry := &models.DecisionLogEntry{
		RequestID:        requestID,
		Category:         category,
		ModelName:        model,
		ExecutionMode:    models.ExecutionMode(mode),
		PromptPreview:    truncate(prompt, 200),
		LatencyMs:        float64(time.Since(start).Microseconds()) / 1000.0,
		Success:          success,
		ErrorKind:        errKind,
		Hybrid:           hybrid,
		ValidationStatus: validationStatus,
	}
	if err := r.decisions.Insert(ctx, entry); err != nil {
		r.logger.Warn("decision audit insert failed", zap.Error(err))
	}
}

// errorKind buckets an error for the audit log.
func errorKind(err error) string {
	var noModel *models.NoModelAvailableError
	if errors.As(err, &noModel) {
		return "no_model_available"
	}
	var completion *models.CompletionError
	if errors.As(err, &completion) {
		return "completion_failed"
	}
	var unavailable *models.CatalogUnavailableError
	if errors.As(err, &unavailable) {
		return "catalog_unavailable"
	}
	return "internal"
}

// truncate shortens s to at most n runes for previews.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
