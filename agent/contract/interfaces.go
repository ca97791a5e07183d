package contract

import "context"

// ChatModel is the single seam to the language model. Implementations must
// enforce a finite timeout; the orchestrator never retries a hung call.
type ChatModel interface {
	Complete(ctx context.Context, system string, msgs []ChatMessage, tools []ToolSpec) (ChatReply, error)
}

// ProductExtractor is the sub-agent delegate used by the bulk import tool.
// It has no tool access and cannot recurse.
type ProductExtractor interface {
	Extract(ctx context.Context, text string) ([]ExtractedProduct, error)
}
