package completion

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"tripnotes/pkg/utils"
)

const doneMarker = "[DONE]"

// IngestResult is what a stream reduced to. Text is always usable, even
// when Err is set: it holds everything received before the stream stopped.
type IngestResult struct {
	Text    string
	Chunks  int
	Skipped int
	Done    bool
	Err     error
}

// Partial reports whether the stream ended before its terminator or EOF.
func (r IngestResult) Partial() bool {
	return r.Err != nil
}

// Ingester concatenates delta fragments from a completion stream.
type Ingester struct {
	logger *zap.Logger
}

func NewIngester(logger *zap.Logger) *Ingester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingester{logger: logger}
}

type lineOrErr struct {
	line []byte
	err  error
}

// Ingest reads body until EOF, the [DONE] terminator, a read error or ctx
// cancellation, whichever comes first. Lines that are not valid JSON
// envelopes are skipped. On cancellation Ingest returns immediately with
// the text accumulated so far; if body is an io.Closer it is closed so the
// blocked reader unwinds.
func (in *Ingester) Ingest(ctx context.Context, body io.Reader) IngestResult {
	lines := make(chan lineOrErr)
	stop := make(chan struct{})
	defer close(stop)

	go readLines(body, lines, stop)

	var (
		text strings.Builder
		res  IngestResult
	)

	for {
		select {
		case <-ctx.Done():
			if c, ok := body.(io.Closer); ok {
				_ = c.Close()
			}
			res.Text = text.String()
			res.Err = ctx.Err()
			in.logger.Warn("completion stream cancelled",
				zap.Int(utils.FieldBytes, text.Len()), zap.Int(utils.FieldChunks, res.Chunks), zap.Error(res.Err))
			return res

		case item, ok := <-lines:
			if !ok {
				res.Text = text.String()
				return res
			}
			if item.err != nil {
				res.Text = text.String()
				// A read error caused by our own cancellation reports the
				// cancellation instead.
				if ctx.Err() != nil {
					res.Err = ctx.Err()
				} else {
					res.Err = item.err
				}
				in.logger.Warn("completion stream interrupted",
					zap.Int(utils.FieldBytes, text.Len()), zap.Error(res.Err))
				return res
			}

			payload, isEvent := eventPayload(item.line)
			if !isEvent {
				continue
			}
			if string(payload) == doneMarker {
				res.Text = text.String()
				res.Done = true
				return res
			}

			var envelope openai.ChatCompletionStreamResponse
			if err := json.Unmarshal(payload, &envelope); err != nil {
				res.Skipped++
				in.logger.Debug("skipping malformed stream line", zap.Error(err))
				continue
			}
			res.Chunks++
			if len(envelope.Choices) > 0 {
				text.WriteString(envelope.Choices[0].Delta.Content)
			}
		}
	}
}

// eventPayload strips an optional `data:` prefix. Blank lines and other SSE
// fields (event:, id:, retry:, comments) carry no payload.
func eventPayload(line []byte) ([]byte, bool) {
	line = bytes.TrimRight(line, "\r\n")
	if len(bytes.TrimSpace(line)) == 0 {
		return nil, false
	}
	if rest, ok := bytes.CutPrefix(line, []byte("data:")); ok {
		return bytes.TrimSpace(rest), true
	}
	for _, field := range [][]byte{[]byte("event:"), []byte("id:"), []byte("retry:"), []byte(":")} {
		if bytes.HasPrefix(line, field) {
			return nil, false
		}
	}
	return bytes.TrimSpace(line), true
}

// readLines pushes complete lines (and a trailing unterminated one) until
// EOF or an error. It exits early when stop closes.
func readLines(body io.Reader, out chan<- lineOrErr, stop <-chan struct{}) {
	defer close(out)
	r := bufio.NewReader(body)
	for {
		line, err := r.ReadBytes('\n')
		if len(line) > 0 {
			select {
			case out <- lineOrErr{line: line}:
			case <-stop:
				return
			}
		}
		if err != nil {
			if err == io.EOF {
				return
			}
			select {
			case out <- lineOrErr{err: err}:
			case <-stop:
			}
			return
		}
	}
}
