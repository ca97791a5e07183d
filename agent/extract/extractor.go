// Package extract is the sub-agent delegate: a single, tool-less model call
// that turns free-form product text into structured records. It is a
// one-level delegation; the extractor cannot call tools or spawn further
// delegates.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/storepilot/storepilot/agent/contract"
)

var (
	ErrEmptyInput = errors.New("no text to extract products from")
	ErrParse      = errors.New("extracted product data is not valid JSON")
)

const systemPrompt = `You convert free-form product text into structured data.
Respond with ONLY a JSON array, no prose and no Markdown. Each element is an
object with keys "name" (string, required), "price" (number, 0 when unknown),
and "sku" (string, empty when unknown). Example:
[{"name":"Red Shoes","price":20,"sku":""},{"name":"Blue Cap","price":5,"sku":""}]`

type Extractor struct {
	model contractx.ChatModel
}

var _ contractx.ProductExtractor = (*Extractor)(nil)

func New(model contractx.ChatModel) *Extractor {
	return &Extractor{model: model}
}

func (e *Extractor) Extract(ctx context.Context, text string) ([]contractx.ExtractedProduct, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	reply, err := e.model.Complete(ctx, systemPrompt, []contractx.ChatMessage{
		{Role: "user", Content: text},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}

	raw := stripCodeFences(reply.Content)
	if raw == "" {
		return nil, ErrParse
	}

	var records []contractx.ExtractedProduct
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	out := records[:0]
	for _, rec := range records {
		rec.Name = strings.TrimSpace(rec.Name)
		rec.SKU = strings.TrimSpace(rec.SKU)
		if rec.Name == "" {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// stripCodeFences removes a Markdown fence wrapper the model may add
// despite being told not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		// drop a language tag like "json" on the fence line
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
