package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayloadsEqualIgnoresEnvelopeAndVolatileFields(t *testing.T) {
	goBody := []byte(`{"data":[{"sl_no":4,"session":2024,"workshop_name":"IPR","updated_at":"2025-01-01T00:00:00Z"}],"pagination":{"page":1}}`)
	legacyBody := []byte(`{"data":[{"sl_no":9,"session":2024.0,"workshop_name":"IPR"}]}`)
	assert.True(t, payloadsEqual(goBody, legacyBody))

	assert.False(t, payloadsEqual([]byte(`{"data":{"grade":4}}`), []byte(`{"data":{"grade":3}}`)))
	assert.False(t, payloadsEqual([]byte(`not json`), []byte(`{}`)))
}

func TestRegistryTargetsFilterByCriterion(t *testing.T) {
	targets := registryTargets(3)
	assert.NotEmpty(t, targets)
	for _, tgt := range targets {
		assert.Contains(t, tgt.Path, "/criteria3/")
	}
	assert.Contains(t, targets, target{Method: "GET", Path: "/criteria3/score313"})
	assert.Contains(t, targets, target{Method: "GET", Path: "/criteria3/getResponsesByCriteriaCode/3.1.3", Critical: true})
}
