package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/storepilot/storepilot/agent/contract"
	storex "github.com/storepilot/storepilot/store"
)

type OrderStatusChanged struct {
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
	URL         string `json:"url,omitempty"`
}

func (r *Registry) updateOrderStatus(ctx context.Context, rc contractx.RequestContext, call contractx.ToolCall, args map[string]any) contractx.ToolResult {
	rawNumber, ok := stringArg(args, "orderNumber")
	if !ok {
		return failure(call, "order number is required")
	}
	status, ok := stringArg(args, "status")
	if !ok {
		return failure(call, "status is required")
	}

	status = strings.ToLower(status)
	if !storex.ValidOrderStatus(status) {
		return failure(call, fmt.Sprintf("invalid status %q: use pending, processing, shipped, delivered, or cancelled", status))
	}

	number := normalizeOrderNumber(rawNumber)
	order, err := r.store.FindOrder(ctx, rc.UserID, number)
	if err != nil {
		if errors.Is(err, storex.ErrNotFound) {
			return failure(call, fmt.Sprintf("Failed to update order: no order matches %q.", rawNumber))
		}
		return failure(call, "Failed to update order.")
	}

	if err := r.store.SetOrderStatus(ctx, rc.UserID, order.ID, storex.OrderStatus(status)); err != nil {
		return failure(call, "Failed to update order.")
	}

	return success(call, OrderStatusChanged{
		OrderNumber: order.OrderNumber,
		Status:      status,
		URL:         fmt.Sprintf("%s/orders/%s", r.previewBase, order.OrderNumber),
	})
}

// normalizeOrderNumber strips the leading "#" merchants habitually type.
func normalizeOrderNumber(raw string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
}
