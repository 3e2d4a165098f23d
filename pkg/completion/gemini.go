package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
}

// GeminiProvider streams from Gemini and re-frames every chunk as an
// OpenAI-style `data:` event, so both providers feed the same Ingester.
type GeminiProvider struct {
	client *genai.Client
	cfg    GeminiConfig
}

func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiProvider{client: client, cfg: cfg}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

func (p *GeminiProvider) StreamComplete(ctx context.Context, req Request) (io.ReadCloser, error) {
	m := p.client.GenerativeModel(p.cfg.Model)
	m.SetTemperature(p.cfg.Temperature)
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = GeminiSchema(req.Schema)
	if req.System != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}

	iter := m.GenerateContentStream(ctx, genai.Text(req.Prompt))
	pr, pw := io.Pipe()
	go pumpGemini(iter, pw)
	return pr, nil
}

type responseIterator interface {
	Next() (*genai.GenerateContentResponse, error)
}

func pumpGemini(iter responseIterator, pw *io.PipeWriter) {
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			_, err = io.WriteString(pw, "data: "+doneMarker+"\n\n")
			_ = pw.CloseWithError(err)
			return
		}
		if err != nil {
			_ = pw.CloseWithError(fmt.Errorf("gemini: %w", err))
			return
		}
		text := responseText(resp)
		if text == "" {
			continue
		}
		if err := writeDelta(pw, text); err != nil {
			// Reader side closed; nobody is listening any more.
			_ = pw.CloseWithError(err)
			return
		}
	}
}

func writeDelta(w io.Writer, text string) error {
	envelope := openai.ChatCompletionStreamResponse{
		Choices: []openai.ChatCompletionStreamChoice{{
			Delta: openai.ChatCompletionStreamChoiceDelta{Content: text},
		}},
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

// GeminiSchema converts a JSON-schema definition to Gemini's schema type.
func GeminiSchema(d jsonschema.Definition) *genai.Schema {
	s := &genai.Schema{
		Description: d.Description,
		Enum:        d.Enum,
		Required:    d.Required,
	}
	switch d.Type {
	case jsonschema.Object:
		s.Type = genai.TypeObject
	case jsonschema.Array:
		s.Type = genai.TypeArray
	case jsonschema.Integer:
		s.Type = genai.TypeInteger
	case jsonschema.Number:
		s.Type = genai.TypeNumber
	case jsonschema.Boolean:
		s.Type = genai.TypeBoolean
	default:
		s.Type = genai.TypeString
	}
	if d.Items != nil {
		s.Items = GeminiSchema(*d.Items)
	}
	if len(d.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(d.Properties))
		for name, prop := range d.Properties {
			s.Properties[name] = GeminiSchema(prop)
		}
	}
	return s
}
