package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini classifier. BaseURL is only set in tests.
type GeminiConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
}

// GeminiClient implements the Classifier interface against the Gemini API.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

// NewGeminiClient constructs a GeminiClient. A missing API key yields ErrDisabled.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ErrDisabled
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-flash-latest"
	}
	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	temp := cfg.Temperature
	if temp <= 0 {
		temp = 0.2
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 800
	}
	return &GeminiClient{
		client:      client,
		model:       model,
		temperature: float32(temp),
		maxTokens:   int32(maxTokens),
	}, nil
}

// Name identifies the provider in logs and metrics.
func (g *GeminiClient) Name() string { return "gemini" }

// Enabled reports whether the client can make outbound calls.
func (g *GeminiClient) Enabled() bool {
	return g != nil && g.client != nil
}

// Classify asks Gemini to identify and assess the medicine.
func (g *GeminiClient) Classify(ctx context.Context, q Query) (*Assessment, error) {
	if !g.Enabled() {
		return nil, ErrDisabled
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
		MaxOutputTokens:   g.maxTokens,
		ResponseMIMEType:  "application/json",
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(buildPrompt(q)), config)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	return parseAssessment(resp.Text())
}
