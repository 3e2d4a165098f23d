// Package completion talks to chat-completion providers and reduces their
// streamed responses to a single text payload.
package completion

import (
	"context"
	"io"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// Request is a provider-neutral completion request: a system instruction,
// the user prompt and the JSON schema the answer must follow.
type Request struct {
	System     string
	Prompt     string
	SchemaName string
	Schema     jsonschema.Definition
}

// Provider opens a streamed completion. The returned body yields
// line-oriented `data: {json}` events whose choices[0].delta.content
// fragments concatenate to the answer. Callers must close it.
type Provider interface {
	Name() string
	StreamComplete(ctx context.Context, req Request) (io.ReadCloser, error)
}
