package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiServer(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-flash-latest:generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
				"finishReason": "STOP",
			}},
		})
	}))
}

func TestNewGeminiClientWithoutKeyIsDisabled(t *testing.T) {
	g, err := NewGeminiClient(context.Background(), GeminiConfig{})
	assert.ErrorIs(t, err, ErrDisabled)
	assert.False(t, g.Enabled())
}

func TestGeminiClassify(t *testing.T) {
	srv := geminiServer(t, `{"found": false, "risk_level": "HIGH", "reason": "Unknown compound"}`)
	defer srv.Close()

	g, err := NewGeminiClient(context.Background(), GeminiConfig{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	a, err := g.Classify(context.Background(), Query{MedicineName: "XyzUnknownCompound123"})
	require.NoError(t, err)
	assert.False(t, a.Found)
	assert.Equal(t, RiskHigh, a.RiskLevel)
	assert.Equal(t, "Unknown compound", a.Reason)
}

func TestGeminiClassifyMalformed(t *testing.T) {
	srv := geminiServer(t, "not json at all")
	defer srv.Close()

	g, err := NewGeminiClient(context.Background(), GeminiConfig{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = g.Classify(context.Background(), Query{MedicineName: "Aspirin"})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}
