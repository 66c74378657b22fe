package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	enabled    bool
	assessment *Assessment
	err        error
	calls      int
}

func (s *stubClassifier) Enabled() bool { return s.enabled }

func (s *stubClassifier) Classify(context.Context, Query) (*Assessment, error) {
	s.calls++
	return s.assessment, s.err
}

func TestWithFallback(t *testing.T) {
	approved := &Assessment{Found: true, RiskLevel: RiskLow}
	boom := errors.New("upstream 503")

	tests := []struct {
		name          string
		primary       *stubClassifier
		fallback      *stubClassifier
		want          *Assessment
		wantErr       error
		fallbackCalls int
	}{
		{"primary wins", &stubClassifier{enabled: true, assessment: approved}, &stubClassifier{enabled: true}, approved, nil, 0},
		{"primary error", &stubClassifier{enabled: true, err: boom}, &stubClassifier{enabled: true, assessment: approved}, approved, nil, 1},
		{"primary nil", &stubClassifier{enabled: true}, &stubClassifier{enabled: true, assessment: approved}, approved, nil, 1},
		{"primary disabled", &stubClassifier{}, &stubClassifier{enabled: true, assessment: approved}, approved, nil, 1},
		{"fallback disabled keeps primary error", &stubClassifier{enabled: true, err: boom}, &stubClassifier{}, nil, boom, 0},
		{"nothing enabled", &stubClassifier{}, &stubClassifier{}, nil, ErrDisabled, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chain := WithFallback(tc.primary, tc.fallback)
			got, err := chain.Classify(context.Background(), Query{MedicineName: "Aspirin"})
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Same(t, tc.want, got)
			assert.Equal(t, tc.fallbackCalls, tc.fallback.calls)
		})
	}
}

func TestWithFallbackNilSides(t *testing.T) {
	only := &stubClassifier{enabled: true}
	assert.Same(t, only, WithFallback(nil, only))
	assert.Same(t, only, WithFallback(only, nil))
	assert.False(t, WithFallback(&stubClassifier{}, &stubClassifier{}).Enabled())
}

func TestBuild(t *testing.T) {
	c, names, err := Build(context.Background(), Settings{Provider: ProviderAuto})
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Empty(t, names)

	c, names, err = Build(context.Background(), Settings{
		Provider: ProviderAuto,
		Gemini:   GeminiConfig{APIKey: "g"},
		OpenAI:   Config{APIKey: "o"},
	})
	require.NoError(t, err)
	assert.True(t, c.Enabled())
	assert.Equal(t, []string{"gemini", "openai"}, names)

	_, names, err = Build(context.Background(), Settings{Provider: ProviderOpenAI, Gemini: GeminiConfig{APIKey: "g"}, OpenAI: Config{APIKey: "o"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"openai"}, names)

	_, names, err = Build(context.Background(), Settings{Provider: ProviderNone, OpenAI: Config{APIKey: "o"}})
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider("")
	require.NoError(t, err)
	assert.Equal(t, ProviderAuto, p)
	p, err = ParseProvider("Gemini")
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, p)
	_, err = ParseProvider("claude")
	assert.Error(t, err)
}
