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

func TestNewPolicyTable_Defaults(t *testing.T) {
	table, err := NewPolicyTable(config.DefaultRoutingPolicies())
	require.NoError(t, err)

	for _, cat := range models.AllCategories() {
		entry, ok := table.PolicyFor(cat)
		require.True(t, ok, "missing policy for %s", cat)
		assert.Equal(t, cat, entry.Category)
	}

	// tenant_restricted never leaves the machine.
	entry, _ := table.PolicyFor(models.CategoryTenantRestricted)
	assert.True(t, entry.PrivacyRestricted)
	assert.Nil(t, entry.RemoteFallback)
}

func TestNewPolicyTable_MissingCategory(t *testing.T) {
	entries := config.DefaultRoutingPolicies()
	// Drop the chat policy.
	trimmed := make([]models.RoutingPolicyEntry, 0, len(entries)-1)
	for _, e := range entries {
		if e.Category != models.CategoryChat {
			trimmed = append(trimmed, e)
		}
	}

	_, err := NewPolicyTable(trimmed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no policy for category "chat"`)
}

func TestNewPolicyTable_DuplicateCategory(t *testing.T) {
	entries := config.DefaultRoutingPolicies()
	entries = append(entries, entries[0])

	_, err := NewPolicyTable(entries)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate policy")
}

func TestNewPolicyTable_UnknownVendor(t *testing.T) {
	entries := config.DefaultRoutingPolicies()
	entries[0].RemoteFallback = &models.RemoteTarget{Vendor: "mistral", Model: "mistral-large"}

	_, err := NewPolicyTable(entries)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown remote vendor")
}

func TestNewPolicyTable_UnknownPrimaryMode(t *testing.T) {
	entries := config.DefaultRoutingPolicies()
	entries[0].PrimaryMode = "cloud_only"

	_, err := NewPolicyTable(entries)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown primary mode")
}

func TestNewPolicyTable_RemotePreferredNeedsFallback(t *testing.T) {
	entries := config.DefaultRoutingPolicies()
	for i := range entries {
		if entries[i].Category == models.CategoryCritical {
			entries[i].RemoteFallback = nil
		}
	}

	_, err := NewPolicyTable(entries)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote_preferred requires a remote fallback")
}

func TestNewPolicyTable_EmptyFallbackModel(t *testing.T) {
	entries := config.DefaultRoutingPolicies()
	entries[0].RemoteFallback = &models.RemoteTarget{Vendor: models.VendorOpenAI, Model: ""}

	_, err := NewPolicyTable(entries)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallback model must not be empty")
}

func TestPolicyTable_EntriesPreserveOrder(t *testing.T) {
	defaults := config.DefaultRoutingPolicies()
	table, err := NewPolicyTable(defaults)
	require.NoError(t, err)

	entries := table.Entries()
	require.Len(t, entries, len(defaults))
	for i, e := range entries {
		assert.Equal(t, defaults[i].Category, e.Category)
	}
}
