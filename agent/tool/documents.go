package tool

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	contractx "github.com/storepilot/storepilot/agent/contract"
	storex "github.com/storepilot/storepilot/store"
)

const (
	DocRefundPolicy  = "refund_policy"
	DocPrivacyPolicy = "privacy_policy"
	DocInvoice       = "invoice"
	DocGeneric       = "document"
)

type DocumentDrafted struct {
	DocType string `json:"docType"`
	Title   string `json:"title"`
	Body    string `json:"body"`
}

type InvoiceIssued struct {
	OrderNumber string `json:"orderNumber"`
	URL         string `json:"url"`
}

var orderNumberPattern = regexp.MustCompile(`#?(\d+)`)

func (r *Registry) createDocument(ctx context.Context, rc contractx.RequestContext, call contractx.ToolCall, args map[string]any) contractx.ToolResult {
	docType, _ := stringArg(args, "docType", "type")
	details, _ := stringArg(args, "details", "content")

	switch inferDocKind(docType + " " + details) {
	case DocInvoice:
		return r.issueInvoice(ctx, rc, call, details)
	case DocRefundPolicy:
		return success(call, DocumentDrafted{
			DocType: DocRefundPolicy,
			Title:   "Refund & Returns Policy",
			Body:    draftRefundPolicy(details),
		})
	case DocPrivacyPolicy:
		return success(call, DocumentDrafted{
			DocType: DocPrivacyPolicy,
			Title:   "Privacy Policy",
			Body:    draftPrivacyPolicy(details),
		})
	default:
		return success(call, DocumentDrafted{
			DocType: DocGeneric,
			Title:   "Store Document",
			Body:    draftGenericDocument(details),
		})
	}
}

func inferDocKind(text string) string {
	text = strings.ToLower(text)
	switch {
	case strings.Contains(text, "refund"), strings.Contains(text, "return"):
		return DocRefundPolicy
	case strings.Contains(text, "privacy"):
		return DocPrivacyPolicy
	case strings.Contains(text, "invoice"):
		return DocInvoice
	default:
		return DocGeneric
	}
}

func (r *Registry) issueInvoice(ctx context.Context, rc contractx.RequestContext, call contractx.ToolCall, details string) contractx.ToolResult {
	match := orderNumberPattern.FindStringSubmatch(details)
	if match == nil {
		return failure(call, "An invoice needs an order number; none was found in the request.")
	}
	number := match[1]

	order, err := r.store.FindOrder(ctx, rc.UserID, number)
	if err != nil {
		if errors.Is(err, storex.ErrNotFound) {
			return failure(call, fmt.Sprintf("No order matches number %q, so no invoice could be produced.", number))
		}
		return failure(call, "Failed to look up the order for the invoice.")
	}

	return success(call, InvoiceIssued{
		OrderNumber: order.OrderNumber,
		URL:         fmt.Sprintf("%s/invoices/%s", r.previewBase, order.OrderNumber),
	})
}

func draftRefundPolicy(details string) string {
	var b strings.Builder
	b.WriteString("Customers may request a refund within 14 days of delivery. ")
	b.WriteString("Items must be unused and in their original packaging. ")
	b.WriteString("Once the returned item is received and inspected, the refund is issued to the original payment method within 5 business days. ")
	b.WriteString("Shipping fees are non-refundable unless the item arrived damaged or incorrect.")
	if details != "" {
		b.WriteString("\n\nAdditional terms: ")
		b.WriteString(details)
	}
	return b.String()
}

func draftPrivacyPolicy(details string) string {
	var b strings.Builder
	b.WriteString("We collect only the information needed to process orders: name, contact details, and delivery address. ")
	b.WriteString("Customer data is never sold or shared with third parties beyond payment and delivery providers. ")
	b.WriteString("Customers may request a copy or deletion of their data at any time by contacting the store.")
	if details != "" {
		b.WriteString("\n\nAdditional terms: ")
		b.WriteString(details)
	}
	return b.String()
}

func draftGenericDocument(details string) string {
	if details == "" {
		return "This document was drafted for your store. Edit it to add the specifics you need."
	}
	return fmt.Sprintf("This document covers: %s.\n\nReview the draft and adjust any details before publishing it to your store.", details)
}
