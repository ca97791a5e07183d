package contract

import "time"

// RequestContext carries the authenticated identity for one request.
// Every store read and write performed on behalf of the request must be
// scoped by UserID; executors receive it explicitly instead of closing
// over it.
type RequestContext struct {
	UserID string `json:"user_id"`
}

// Intent is the closed set of response intents the frontend understands.
type Intent string

const (
	IntentGeneralQuery     Intent = "general_query"
	IntentProductCreation  Intent = "product_creation"
	IntentProductUpdate    Intent = "product_update"
	IntentProductDeletion  Intent = "product_deletion"
	IntentProductList      Intent = "product_list"
	IntentProductExtract   Intent = "product_extraction"
	IntentOrderUpdate      Intent = "order_update"
	IntentDocumentGenerate Intent = "document_generation"
	IntentInvoiceGenerate  Intent = "invoice_generation"
	IntentStoreSetup       Intent = "store_setup"
	IntentBranding         Intent = "branding_customization"
)

// ToolSpec is the wire-level description of one tool exposed to the model.
// Parameters is a JSON-schema object. Names and fields are part of the
// protocol the model speaks; renaming them breaks tool calling.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolCall is a single tool invocation requested by the model.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolResult is the outcome of executing one tool call. Data carries a
// typed per-tool payload struct; the response mapper type-switches on it.
type ToolResult struct {
	Tool    string `json:"tool"`
	CallID  string `json:"call_id,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ChatMessage is a provider-agnostic chat message for the model transcript.
type ChatMessage struct {
	Role       string     `json:"role"` // user | assistant | tool
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ChatReply is the assistant turn returned by the model: final text,
// zero or more tool calls, or both.
type ChatReply struct {
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// WidgetType discriminates the Widget union.
type WidgetType string

const (
	WidgetInvoice      WidgetType = "invoice"
	WidgetDocument     WidgetType = "document"
	WidgetStorePreview WidgetType = "store_preview"
	WidgetLink         WidgetType = "link"
)

// Widget is a structured artifact attached to a response so the frontend
// can render something richer than text.
type Widget struct {
	Type WidgetType `json:"type"`

	// invoice
	OrderNumber string `json:"order_number,omitempty"`

	// document
	Title   string `json:"title,omitempty"`
	Body    string `json:"body,omitempty"`
	DocType string `json:"doc_type,omitempty"`

	// store_preview / link
	URL       string `json:"url,omitempty"`
	StoreName string `json:"store_name,omitempty"`
	Label     string `json:"label,omitempty"`
}

// AgentResponse is the wire contract consumed by the frontend.
type AgentResponse struct {
	Content string   `json:"content"`
	Intent  Intent   `json:"intent"`
	Steps   []string `json:"steps"`
	Widget  *Widget  `json:"widget,omitempty"`
}

// ExtractedProduct is one record produced by the sub-agent delegate.
type ExtractedProduct struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	SKU   string  `json:"sku,omitempty"`
}

// Snapshot is the read-only business-data summary built once per request.
// It is never persisted and never shared across requests.
type Snapshot struct {
	StoreName     string
	UserFirstName string
	Niche         string
	Location      string

	Revenue       float64
	TotalOrders   int
	PendingOrders int

	TotalProducts    int
	LowStockProducts []LowStockProduct

	TotalCustomers int
	TopCustomers   []TopCustomer

	// Degraded is set when any read failed during assembly; the snapshot
	// is then best-effort and the prompt says so instead of guessing.
	Degraded    bool
	GeneratedAt time.Time
}

type LowStockProduct struct {
	Name          string
	StockQuantity int
}

type TopCustomer struct {
	Name          string
	LifetimeValue float64
}
