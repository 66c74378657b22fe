package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Provider selects which classifier backends are wired.
type Provider string

const (
	ProviderAuto   Provider = "auto"
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
	ProviderNone   Provider = "none"
)

// ParseProvider validates a provider name. Empty means auto.
func ParseProvider(value string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(value))); p {
	case "":
		return ProviderAuto, nil
	case ProviderAuto, ProviderGemini, ProviderOpenAI, ProviderNone:
		return p, nil
	default:
		return "", fmt.Errorf("unknown ai provider %q", value)
	}
}

// Settings groups the provider selection with each provider's configuration.
type Settings struct {
	Provider Provider
	Gemini   GeminiConfig
	OpenAI   Config
}

type named interface {
	Name() string
}

// Build wires the configured classifiers. Gemini is primary when both are available.
// The returned names list the providers that are actually enabled; an empty list means
// every fallback resolves to unverified.
func Build(ctx context.Context, s Settings) (Classifier, []string, error) {
	var chain []Classifier
	if s.Provider == ProviderAuto || s.Provider == ProviderGemini {
		gemini, err := NewGeminiClient(ctx, s.Gemini)
		switch {
		case errors.Is(err, ErrDisabled):
		case err != nil:
			return nil, nil, err
		default:
			chain = append(chain, gemini)
		}
	}
	if s.Provider == ProviderAuto || s.Provider == ProviderOpenAI {
		openai, err := NewClient(s.OpenAI)
		switch {
		case errors.Is(err, ErrDisabled):
		case err != nil:
			return nil, nil, err
		default:
			chain = append(chain, openai)
		}
	}

	var (
		classifier Classifier
		names      []string
	)
	for i := len(chain) - 1; i >= 0; i-- {
		classifier = WithFallback(chain[i], classifier)
	}
	for _, c := range chain {
		if n, ok := c.(named); ok {
			names = append(names, n.Name())
		}
	}
	if len(names) == 0 {
		logrus.WithField("provider", s.Provider).Warn("no ai classifier configured; unresolved medicines will be reported as unverified")
	}
	return classifier, names, nil
}
