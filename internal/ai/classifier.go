package ai

import (
	"context"
	"errors"
)

// Classifier identifies a medicine from free text and assesses whether it is legitimate.
type Classifier interface {
	Enabled() bool
	Classify(ctx context.Context, q Query) (*Assessment, error)
}

var (
	ErrDisabled          = errors.New("ai classifier disabled")
	ErrMalformedResponse = errors.New("ai classifier returned malformed response")
)
