package ai

import (
	"context"
)

type classifierChain struct {
	primary  Classifier
	fallback Classifier
}

// WithFallback returns a classifier that first tries the primary implementation and
// falls back to the provided classifier when the primary is unavailable, fails or
// returns nothing.
func WithFallback(primary, fallback Classifier) Classifier {
	if primary == nil {
		return fallback
	}
	if fallback == nil {
		return primary
	}
	return &classifierChain{primary: primary, fallback: fallback}
}

func (c *classifierChain) Enabled() bool {
	if c == nil {
		return false
	}
	if c.primary != nil && c.primary.Enabled() {
		return true
	}
	if c.fallback != nil && c.fallback.Enabled() {
		return true
	}
	return false
}

func (c *classifierChain) Classify(ctx context.Context, q Query) (*Assessment, error) {
	if c == nil {
		return nil, ErrDisabled
	}
	var primaryErr error
	if c.primary != nil && c.primary.Enabled() {
		assessment, err := c.primary.Classify(ctx, q)
		if err == nil && assessment != nil {
			return assessment, nil
		}
		primaryErr = err
	}
	if c.fallback != nil && c.fallback.Enabled() && ctx.Err() == nil {
		return c.fallback.Classify(ctx, q)
	}
	if primaryErr != nil {
		return nil, primaryErr
	}
	return nil, ErrDisabled
}
