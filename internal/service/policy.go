package service

import (
	"fmt"

	"github.com/clientforge/ai-router/internal/models"
)

// PolicyTable holds the per-category routing policies. It is validated
// and frozen at startup; lookups never fail for a known category.
type PolicyTable struct {
	entries map[models.TaskCategory]models.RoutingPolicyEntry
	order   []models.TaskCategory
}

// NewPolicyTable validates the policy entries and builds the lookup
// table. Validation is fail-fast: the table must cover every category
// the classifier can produce, and every remote fallback must name a
// known vendor. Vendor resolution happens here, once; nothing downstream
// inspects model-id strings to guess a vendor.
func NewPolicyTable(entries []models.RoutingPolicyEntry) (*PolicyTable, error) {
	table := make(map[models.TaskCategory]models.RoutingPolicyEntry, len(entries))
	order := make([]models.TaskCategory, 0, len(entries))

	for _, e := range entries {
		if _, dup := table[e.Category]; dup {
			return nil, fmt.Errorf("duplicate policy for category %q", e.Category)
		}
		switch e.PrimaryMode {
		case models.LocalPreferred, models.RemotePreferred:
		default:
			return nil, fmt.Errorf("policy %q: unknown primary mode %q", e.Category, e.PrimaryMode)
		}
		if e.RemoteFallback != nil {
			switch e.RemoteFallback.Vendor {
			case models.VendorOpenAI, models.VendorAnthropic:
			default:
				return nil, fmt.Errorf("policy %q: unknown remote vendor %q", e.Category, e.RemoteFallback.Vendor)
			}
			if e.RemoteFallback.Model == "" {
				return nil, fmt.Errorf("policy %q: remote fallback model must not be empty", e.Category)
			}
		}
		if e.PrimaryMode == models.RemotePreferred && e.RemoteFallback == nil {
			return nil, fmt.Errorf("policy %q: remote_preferred requires a remote fallback", e.Category)
		}
		table[e.Category] = e
		order = append(order, e.Category)
	}

	// Total coverage: every classifiable category needs a policy.
	for _, cat := range models.AllCategories() {
		if _, ok := table[cat]; !ok {
			return nil, fmt.Errorf("no policy for category %q", cat)
		}
	}

	return &PolicyTable{entries: table, order: order}, nil
}

// PolicyFor returns the policy for the category. The bool is false only
// for categories outside the validated set.
func (t *PolicyTable) PolicyFor(category models.TaskCategory) (models.RoutingPolicyEntry, bool) {
	e, ok := t.entries[category]
	return e, ok
}

// Entries returns the policies in declaration order.
func (t *PolicyTable) Entries() []models.RoutingPolicyEntry {
	result := make([]models.RoutingPolicyEntry, 0, len(t.order))
	for _, cat := range t.order {
		result = append(result, t.entries[cat])
	}
	return result
}
