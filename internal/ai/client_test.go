package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		messages, _ := payload["messages"].([]any)
		require.Len(t, messages, 2)
		user, _ := messages[1].(map[string]any)
		assert.Contains(t, user["content"], `"Aspirin"`)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"quota"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
		})
	}))
}

func TestNewClientWithoutKeyIsDisabled(t *testing.T) {
	c, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrDisabled)
	assert.False(t, c.Enabled())
	_, err = c.Classify(context.Background(), Query{MedicineName: "Aspirin"})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestClientClassify(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"found":true,"risk_level":"LOW","brand_name":"Disprin","generic_name":"Aspirin","manufacturer":"Reckitt"}`)
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	a, err := c.Classify(context.Background(), Query{MedicineName: "Aspirin"})
	require.NoError(t, err)
	assert.True(t, a.Approved())
	assert.Equal(t, "Disprin", a.BrandName)
}

func TestClientClassifyErrors(t *testing.T) {
	srv := chatServer(t, http.StatusTooManyRequests, "")
	defer srv.Close()
	c, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = c.Classify(context.Background(), Query{MedicineName: "Aspirin"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "429"), err.Error())

	garbage := chatServer(t, http.StatusOK, "Sorry, I cannot help with that.")
	defer garbage.Close()
	c, err = NewClient(Config{APIKey: "test-key", BaseURL: garbage.URL})
	require.NoError(t, err)
	_, err = c.Classify(context.Background(), Query{MedicineName: "Aspirin"})
	assert.True(t, errors.Is(err, ErrMalformedResponse), "got %v", err)
}
