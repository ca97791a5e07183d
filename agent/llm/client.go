// Package llm implements the ChatModel seam on the OpenAI SDK.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/shared"
	"github.com/rs/zerolog/log"

	contractx "github.com/storepilot/storepilot/agent/contract"
	openrouterx "github.com/storepilot/storepilot/pkg/openrouter"
)

type Client struct {
	sdk         *openaisdk.Client
	model       string
	maxTokens   int
	temperature float32
}

var _ contractx.ChatModel = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sdk := openrouterx.NewClient(cfg.openRouter())
	if sdk == nil {
		return nil, errors.New("failed to build llm sdk client")
	}
	return &Client{
		sdk:         sdk,
		model:       strings.TrimSpace(cfg.Model),
		maxTokens:   cfg.MaxCompletionToken,
		temperature: cfg.Temperature,
	}, nil
}

func (c *Client) Complete(ctx context.Context, system string, msgs []contractx.ChatMessage, tools []contractx.ToolSpec) (contractx.ChatReply, error) {
	params := openaisdk.ChatCompletionNewParams{
		Model:       shared.ChatModel(c.model),
		Messages:    toMessageParams(system, msgs),
		Temperature: openaisdk.Float(float64(c.temperature)),
	}
	if c.maxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(int64(c.maxTokens))
	}
	if len(tools) > 0 {
		params.Tools = toToolParams(tools)
	}

	completion, err := c.sdk.Chat.Completions.New(ctx, params)
	if err != nil {
		return contractx.ChatReply{}, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	if len(completion.Choices) == 0 {
		return contractx.ChatReply{}, fmt.Errorf("%w: completion has no choices", contractx.ErrModelInvoke)
	}

	msg := completion.Choices[0].Message
	reply := contractx.ChatReply{Content: msg.Content}
	for _, tc := range msg.ToolCalls {
		reply.ToolCalls = append(reply.ToolCalls, contractx.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: decodeArguments(tc.Function.Name, tc.Function.Arguments),
		})
	}
	return reply, nil
}

// decodeArguments is lenient: malformed argument JSON degrades to an empty
// argument map, which the executor rejects with a tool-level error instead
// of the whole turn failing.
func decodeArguments(tool, raw string) map[string]any {
	args := map[string]any{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return args
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		log.Warn().Str("tool", tool).Err(err).Msg("discarding malformed tool arguments")
		return map[string]any{}
	}
	return args
}

func toMessageParams(system string, msgs []contractx.ChatMessage) []openaisdk.ChatCompletionMessageParamUnion {
	out := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(msgs)+1)
	if system != "" {
		out = append(out, openaisdk.SystemMessage(system))
	}
	for _, m := range msgs {
		switch m.Role {
		case "assistant":
			out = append(out, assistantParam(m))
		case "tool":
			out = append(out, openaisdk.ToolMessage(m.Content, m.ToolCallID))
		default:
			out = append(out, openaisdk.UserMessage(m.Content))
		}
	}
	return out
}

func assistantParam(m contractx.ChatMessage) openaisdk.ChatCompletionMessageParamUnion {
	assistant := openaisdk.ChatCompletionAssistantMessageParam{}
	if m.Content != "" {
		assistant.Content.OfString = openaisdk.String(m.Content)
	}
	for _, tc := range m.ToolCalls {
		raw, err := json.Marshal(tc.Arguments)
		if err != nil {
			raw = []byte("{}")
		}
		assistant.ToolCalls = append(assistant.ToolCalls, openaisdk.ChatCompletionMessageToolCallUnionParam{
			OfFunction: &openaisdk.ChatCompletionMessageFunctionToolCallParam{
				ID: tc.ID,
				Function: openaisdk.ChatCompletionMessageFunctionToolCallFunctionParam{
					Name:      tc.Name,
					Arguments: string(raw),
				},
			},
		})
	}
	return openaisdk.ChatCompletionMessageParamUnion{OfAssistant: &assistant}
}

func toToolParams(tools []contractx.ToolSpec) []openaisdk.ChatCompletionToolUnionParam {
	out := make([]openaisdk.ChatCompletionToolUnionParam, 0, len(tools))
	for _, t := range tools {
		out = append(out, openaisdk.ChatCompletionFunctionTool(shared.FunctionDefinitionParam{
			Name:        t.Name,
			Description: openaisdk.String(t.Description),
			Parameters:  shared.FunctionParameters(t.Parameters),
		}))
	}
	return out
}
