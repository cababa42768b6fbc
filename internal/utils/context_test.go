// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextKeyString(t *testing.T) {
	assert.Equal(t, "testKey", contextKey("testKey").String())
	assert.Equal(t, "traceID", TraceIDCtxKey.String())
}

func TestGetTraceIDFromContext(t *testing.T) {
	tests := []struct {
		name   string
		ctx    context.Context
		want   string
		wantOK bool
	}{
		{"present", WithTraceID(context.Background(), "abc"), "abc", true},
		{"missing", context.Background(), "", false},
		{"empty", WithTraceID(context.Background(), ""), "", false},
		{"wrong type", context.WithValue(context.Background(), TraceIDCtxKey, 42), "", false},
		{"plain string key is not ours", context.WithValue(context.Background(), "traceID", "abc"), "", false}, //nolint:staticcheck
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GetTraceIDFromContext(tt.ctx)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUUIDGenerator_Generate(t *testing.T) {
	g := NewUUIDGenerator()

	first, second := g.Generate(), g.Generate()
	assert.NotEqual(t, first, second)

	parsed, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}
