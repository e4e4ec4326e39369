package service

import (
	"strings"

	"go.uber.org/zap"

	"github.com/clientforge/ai-router/internal/config"
	"github.com/clientforge/ai-router/internal/models"
)

// Selector picks a concrete model for a category against a catalog
// snapshot. Selection is deterministic: the same policy, catalog order,
// and key availability always yield the same decision.
type Selector struct {
	remote config.RemoteConfig
	logger *zap.Logger
}

// NewSelector creates a Selector.
func NewSelector(remote config.RemoteConfig, logger *zap.Logger) *Selector {
	return &Selector{remote: remote, logger: logger}
}

// Select resolves a model for the category. forceLocal restricts
// selection to the local catalog regardless of the policy's primary
// mode; hybrid primaries use it.
//
// Local candidates are tried only when the policy is local-preferred or
// forceLocal is set: first each preferred model in declared order
// against the catalog, then the first catalog entry as a last resort.
// The first-available fallback guarantees liveness, not suitability.
// The remote fallback applies only when the policy names one, the
// category is not privacy-restricted, and the vendor's key is present.
func (s *Selector) Select(
	policy models.RoutingPolicyEntry,
	catalog []models.CatalogModel,
	forceLocal bool,
) (*models.RoutingDecision, error) {
	localAllowed := forceLocal || policy.PrimaryMode == models.LocalPreferred

	if localAllowed {
		for _, preferred := range policy.PreferredModels {
			for _, entry := range catalog {
				if modelMatches(preferred, entry.ID) {
					s.logger.Debug("preferred model matched",
						zap.String("category", string(policy.Category)),
						zap.String("preferred", preferred),
						zap.String("catalog_id", entry.ID))
					return &models.RoutingDecision{
						Model:    entry.ID,
						Mode:     models.ModeLocal,
						Category: policy.Category,
						Reason:   "preferred model matched: " + preferred,
					}, nil
				}
			}
		}

		if len(catalog) > 0 {
			s.logger.Debug("no preferred model loaded, using first available",
				zap.String("category", string(policy.Category)),
				zap.String("catalog_id", catalog[0].ID))
			return &models.RoutingDecision{
				Model:    catalog[0].ID,
				Mode:     models.ModeLocal,
				Category: policy.Category,
				Reason:   "first available local model",
			}, nil
		}
	}

	if !forceLocal && policy.RemoteFallback != nil && !policy.PrivacyRestricted {
		vendor := policy.RemoteFallback.Vendor
		if s.remote.HasKey(string(vendor)) {
			return &models.RoutingDecision{
				Model:    policy.RemoteFallback.Model,
				Mode:     models.RemoteModeFor(vendor),
				Category: policy.Category,
				Reason:   "remote fallback: " + string(vendor),
			}, nil
		}
	}

	return nil, &models.NoModelAvailableError{
		Category: policy.Category,
		Detail:   selectionFailureDetail(policy, localAllowed, forceLocal),
	}
}

// modelMatches reports whether a preferred model id matches a catalog
// id. The match is a case-insensitive substring test in both directions,
// so "qwen-coder-30b" matches "qwen/qwen-coder-30b-mlx-q4" and vice
// versa.
func modelMatches(preferred, catalogID string) bool {
	p := strings.ToLower(preferred)
	c := strings.ToLower(catalogID)
	return strings.Contains(c, p) || strings.Contains(p, c)
}

func selectionFailureDetail(policy models.RoutingPolicyEntry, localAllowed, forceLocal bool) string {
	local := "local selection not attempted (remote preferred)"
	if localAllowed {
		local = "no local model loaded"
	}
	switch {
	case forceLocal:
		return local + "; remote not allowed here"
	case policy.PrivacyRestricted:
		return local + "; category is privacy restricted"
	case policy.RemoteFallback == nil:
		return local + "; no remote fallback configured"
	default:
		return local + "; no API key for remote vendor " + string(policy.RemoteFallback.Vendor)
	}
}
