// Package llm holds the text-generation collaborators used by the
// categorization pipeline.
package llm

import (
	"context"
	"errors"
)

// ErrUnavailable marks failures to reach the model: transport errors,
// non-2xx answers, empty candidates.
var ErrUnavailable = errors.New("generative model unavailable")

// Generator turns a prompt into free text. Implementations make exactly one
// attempt per call.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
