// Package tool holds the fixed catalog of operations the model may invoke.
// Each executor canonicalizes its arguments, scopes every store access by
// the request's user id, and reports failure inside the ToolResult rather
// than as a Go error, so one bad call never aborts the conversation turn.
package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/storepilot/storepilot/agent/contract"
	storex "github.com/storepilot/storepilot/store"
)

const (
	ToolCreateDocument    = "createDocument"
	ToolEditProduct       = "editProduct"
	ToolDeleteProduct     = "deleteProduct"
	ToolUpdateOrderStatus = "updateOrderStatus"
	ToolListProducts      = "listProducts"
	ToolAddProduct        = "addProduct"
	ToolImportProducts    = "importProducts"
	ToolSetupStorefront   = "setupStorefront"
	ToolCustomizeBranding = "customizeBranding"
)

type Config struct {
	PreviewBaseURL string `envconfig:"PREVIEW_BASE_URL" split_words:"true" default:"https://storepilot.app"`
}

// Registry is the closed tool catalog for a deployment. It is not
// user-extensible at runtime.
type Registry struct {
	store       storex.Store
	extractor   contractx.ProductExtractor
	previewBase string
	now         func() time.Time
}

func NewRegistry(store storex.Store, extractor contractx.ProductExtractor, cfg Config) *Registry {
	base := cfg.PreviewBaseURL
	if base == "" {
		base = "https://storepilot.app"
	}
	return &Registry{
		store:       store,
		extractor:   extractor,
		previewBase: base,
		now:         time.Now,
	}
}

// Execute runs one tool call. It never panics outward and never returns a
// Go error: every failure mode lands in the result's Error field.
func (r *Registry) Execute(ctx context.Context, rc contractx.RequestContext, call contractx.ToolCall) (result contractx.ToolResult) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("tool", call.Name).Any("panic", rec).Msg("tool executor panicked")
			result = failure(call, fmt.Sprintf("internal error executing %s", call.Name))
		}
	}()

	args := call.Arguments
	if args == nil {
		args = map[string]any{}
	}

	switch call.Name {
	case ToolCreateDocument:
		return r.createDocument(ctx, rc, call, args)
	case ToolEditProduct:
		return r.editProduct(ctx, rc, call, args)
	case ToolDeleteProduct:
		return r.deleteProduct(ctx, rc, call, args)
	case ToolUpdateOrderStatus:
		return r.updateOrderStatus(ctx, rc, call, args)
	case ToolListProducts:
		return r.listProducts(ctx, rc, call, args)
	case ToolAddProduct:
		return r.addProduct(ctx, rc, call, args)
	case ToolImportProducts:
		return r.importProducts(ctx, rc, call, args)
	case ToolSetupStorefront:
		return r.setupStorefront(ctx, rc, call, args)
	case ToolCustomizeBranding:
		return r.customizeBranding(ctx, rc, call, args)
	default:
		return failure(call, fmt.Sprintf("unknown tool %q", call.Name))
	}
}

func success(call contractx.ToolCall, data any) contractx.ToolResult {
	return contractx.ToolResult{
		Tool:    call.Name,
		CallID:  call.ID,
		Success: true,
		Data:    data,
	}
}

func failure(call contractx.ToolCall, msg string) contractx.ToolResult {
	return contractx.ToolResult{
		Tool:   call.Name,
		CallID: call.ID,
		Error:  msg,
	}
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func numberProp(desc string) map[string]any {
	return map[string]any{"type": "number", "description": desc}
}

// Specs returns the wire catalog sent to the model. Tool and field names
// are protocol: renaming one breaks the model's ability to call it.
func (r *Registry) Specs() []contractx.ToolSpec {
	return []contractx.ToolSpec{
		{
			Name:        ToolCreateDocument,
			Description: "Draft a business document (refund policy, privacy policy, generic document) or produce an invoice reference for an existing order.",
			Parameters: objectSchema(map[string]any{
				"docType": stringProp("Kind of document, e.g. refund policy, privacy policy, invoice."),
				"type":    stringProp("Alias of docType."),
				"details": stringProp("What the document should cover. For invoices include the order number."),
				"content": stringProp("Alias of details."),
			}),
		},
		{
			Name:        ToolEditProduct,
			Description: "Update a product's price, stock, name, or description. The product is matched by SKU or by (part of) its name.",
			Parameters: objectSchema(map[string]any{
				"identifier":    stringProp("Product SKU or (part of) the product name."),
				"price":         numberProp("New price."),
				"stockQuantity": numberProp("New stock quantity."),
				"stock":         numberProp("Alias of stockQuantity."),
				"name":          stringProp("New product name."),
				"description":   stringProp("New product description."),
			}, "identifier"),
		},
		{
			Name:        ToolDeleteProduct,
			Description: "Delete a product. The product is matched by SKU or by (part of) its name.",
			Parameters: objectSchema(map[string]any{
				"identifier": stringProp("Product SKU or (part of) the product name."),
			}, "identifier"),
		},
		{
			Name:        ToolUpdateOrderStatus,
			Description: "Change an order's status. Valid statuses: pending, processing, shipped, delivered, cancelled.",
			Parameters: objectSchema(map[string]any{
				"orderNumber": stringProp("Order number, with or without a leading #."),
				"status":      stringProp("New status."),
			}, "orderNumber", "status"),
		},
		{
			Name:        ToolListProducts,
			Description: "List the merchant's products, optionally filtered by a search term or a stock status keyword.",
			Parameters: objectSchema(map[string]any{
				"limit":       numberProp("Maximum number of products to return (default 50)."),
				"searchQuery": stringProp("Substring to match against product names and SKUs."),
				"status":      stringProp("Stock filter: 'low' or 'out'."),
			}),
		},
		{
			Name:        ToolAddProduct,
			Description: "Create a single product in the store.",
			Parameters: objectSchema(map[string]any{
				"name":        stringProp("Product name."),
				"price":       numberProp("Product price."),
				"stock":       numberProp("Initial stock quantity (default 1)."),
				"sku":         stringProp("SKU; generated automatically when omitted."),
				"description": stringProp("Product description."),
			}, "name", "price"),
		},
		{
			Name:        ToolImportProducts,
			Description: "Import multiple products from free-form text such as a pasted list or message.",
			Parameters: objectSchema(map[string]any{
				"productListText": stringProp("The raw text containing the products."),
				"text":            stringProp("Alias of productListText."),
			}),
		},
		{
			Name:        ToolSetupStorefront,
			Description: "Create or update the merchant's storefront with a business name and niche.",
			Parameters: objectSchema(map[string]any{
				"businessName": stringProp("The business or store name."),
				"storeName":    stringProp("Alias of businessName."),
				"niche":        stringProp("What the store sells."),
			}),
		},
		{
			Name:        ToolCustomizeBranding,
			Description: "Update storefront branding: colors, fonts, and hero copy. Only the provided fields change.",
			Parameters: objectSchema(map[string]any{
				"primaryColor":  stringProp("Primary brand color (hex or name)."),
				"primary_color": stringProp("Alias of primaryColor."),
				"accentColor":   stringProp("Accent color."),
				"accent_color":  stringProp("Alias of accentColor."),
				"headingFont":   stringProp("Heading font family."),
				"heading_font":  stringProp("Alias of headingFont."),
				"bodyFont":      stringProp("Body font family."),
				"body_font":     stringProp("Alias of bodyFont."),
				"heroTitle":     stringProp("Hero section title."),
				"hero_title":    stringProp("Alias of heroTitle."),
				"heroSubtitle":  stringProp("Hero section subtitle."),
				"hero_subtitle": stringProp("Alias of heroSubtitle."),
			}),
		},
	}
}
