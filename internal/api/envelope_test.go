package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapObject(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantRaw    string
		wantLegacy bool
		wantErr    bool
	}{
		{"canonical", `{"data":{"_id":"q1"}}`, `{"_id":"q1"}`, false, false},
		{"bare object", `{"_id":"q1","status":"draft"}`, `{"_id":"q1","status":"draft"}`, true, false},
		{"double wrapped", `{"success":true,"data":{"data":{"id":"q2"}}}`, `{"id":"q2"}`, true, false},
		{"no id anywhere", `{"data":{"status":"draft"}}`, "", false, true},
		{"null id", `{"data":{"_id":null}}`, "", false, true},
		{"array", `[{"_id":"q1"}]`, "", false, true},
		{"not json", `<html>`, "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, legacy, err := unwrapObject([]byte(tt.body), "_id", "id")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantRaw, raw)
			assert.Equal(t, tt.wantLegacy, legacy)
		})
	}
}

func TestUnwrapList(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantLegacy bool
		wantErr    bool
	}{
		{"canonical", `{"data":[{"id":"1"}]}`, false, false},
		{"bare array", `[{"id":"1"}]`, true, false},
		{"double wrapped", `{"data":{"data":[{"id":"1"}]}}`, true, false},
		{"resource key", `{"components":[{"id":"1"}],"total":1}`, true, false},
		{"nested resource key", `{"data":{"components":[{"id":"1"}]}}`, true, false},
		{"object", `{"data":{"id":"1"}}`, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, legacy, err := unwrapList([]byte(tt.body), "components")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, `[{"id":"1"}]`, raw)
			assert.Equal(t, tt.wantLegacy, legacy)
		})
	}
}
