package orchestrator

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	contractx "github.com/storepilot/storepilot/agent/contract"
)

// DefaultMaxRounds bounds the model/tool exchange. The cap is a deliberate
// cost, latency, and safety bound: it prevents runaway tool chaining no
// matter what the model asks for.
const DefaultMaxRounds = 2

type loopState int

const (
	stateComposing loopState = iota
	stateAwaitingModel
	stateExecutingTools
	stateDone
)

// outcome is everything a terminated loop produced: the final text, the
// ordered tool calls, and each call's result keyed by call id.
type outcome struct {
	Text    string
	Calls   []contractx.ToolCall
	Results map[string]contractx.ToolResult
}

// runLoop drives the bounded tool-calling exchange. Tool calls within one
// round execute sequentially, in the order received: later calls may
// depend on the side effects of earlier ones, and the store is not assumed
// to be transactional across tool boundaries.
func (a *Agent) runLoop(ctx context.Context, rc contractx.RequestContext, system, userMessage string) (outcome, error) {
	out := outcome{Results: map[string]contractx.ToolResult{}}
	specs := a.tools.Specs()

	var (
		msgs    []contractx.ChatMessage
		pending []contractx.ToolCall
	)
	rounds := 0
	state := stateComposing

	for state != stateDone {
		switch state {
		case stateComposing:
			msgs = append(msgs, contractx.ChatMessage{Role: "user", Content: userMessage})
			state = stateAwaitingModel

		case stateAwaitingModel:
			reply, err := a.model.Complete(ctx, system, msgs, specs)
			if err != nil {
				return outcome{}, err
			}
			msgs = append(msgs, contractx.ChatMessage{
				Role:      "assistant",
				Content:   reply.Content,
				ToolCalls: reply.ToolCalls,
			})
			out.Text = reply.Content

			if len(reply.ToolCalls) == 0 {
				state = stateDone
				break
			}
			pending = reply.ToolCalls
			state = stateExecutingTools

		case stateExecutingTools:
			rounds++
			log.Debug().Int("round", rounds).Int("tool_calls", len(pending)).
				Str("user_id", rc.UserID).Msg("executing tool round")

			for _, call := range pending {
				result := a.tools.Execute(ctx, rc, call)
				out.Calls = append(out.Calls, call)
				out.Results[call.ID] = result
				msgs = append(msgs, contractx.ChatMessage{
					Role:       "tool",
					Content:    encodeResult(result),
					ToolCallID: call.ID,
				})
			}
			pending = nil

			if rounds >= a.maxRounds {
				// Round cap reached: terminate with whatever text and
				// results exist instead of asking the model to continue.
				state = stateDone
				break
			}
			state = stateAwaitingModel
		}
	}

	return out, nil
}

func encodeResult(result contractx.ToolResult) string {
	raw, err := json.Marshal(result)
	if err != nil {
		return `{"success":false,"error":"unencodable tool result"}`
	}
	return string(raw)
}
