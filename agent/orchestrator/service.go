// Package orchestrator ties one chat turn together: build the context
// snapshot, compose the system prompt, drive the bounded tool-calling loop,
// and map the outcome onto the response contract.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/storepilot/storepilot/agent/contract"
	"github.com/storepilot/storepilot/agent/prompt"
	"github.com/storepilot/storepilot/agent/snapshot"
	toolx "github.com/storepilot/storepilot/agent/tool"
)

type Config struct {
	// MaxRounds is the step cap: the maximum number of model/tool exchange
	// rounds per request.
	MaxRounds int `envconfig:"MAX_ROUNDS" split_words:"true" default:"2"`
}

type Agent struct {
	builder   *snapshot.Builder
	model     contractx.ChatModel
	tools     *toolx.Registry
	maxRounds int
	now       func() time.Time
}

func New(builder *snapshot.Builder, model contractx.ChatModel, tools *toolx.Registry, cfg Config) (*Agent, error) {
	if builder == nil {
		return nil, fmt.Errorf("%w: snapshot builder is required", contractx.ErrValidation)
	}
	if model == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	if tools == nil {
		return nil, fmt.Errorf("%w: tool registry is required", contractx.ErrValidation)
	}

	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	return &Agent{
		builder:   builder,
		model:     model,
		tools:     tools,
		maxRounds: maxRounds,
		now:       time.Now,
	}, nil
}

// HandleMessage runs one full request: snapshot, prompt, loop, response.
// Only orchestration-level failures (the model being unreachable) return an
// error; everything below that degrades into a conversational response.
func (a *Agent) HandleMessage(ctx context.Context, userID, message string) (contractx.AgentResponse, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return contractx.AgentResponse{}, contractx.ErrUnauthenticated
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return contractx.AgentResponse{}, fmt.Errorf("%w: message is empty", contractx.ErrValidation)
	}

	started := a.now()
	rc := contractx.RequestContext{UserID: userID}

	snap := a.builder.Build(ctx, userID)
	system := prompt.Compose(snap)

	out, err := a.runLoop(ctx, rc, system, message)
	if err != nil {
		return contractx.AgentResponse{}, err
	}

	resp := mapResponse(out)
	log.Info().
		Str("user_id", userID).
		Str("intent", string(resp.Intent)).
		Int("tool_calls", len(out.Calls)).
		Bool("degraded_snapshot", snap.Degraded).
		Dur("took", a.now().Sub(started)).
		Msg("chat turn handled")
	return resp, nil
}
