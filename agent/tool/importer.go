package tool

import (
	"context"
	"errors"

	contractx "github.com/storepilot/storepilot/agent/contract"
	"github.com/storepilot/storepilot/agent/extract"
	storex "github.com/storepilot/storepilot/store"
)

const defaultImportStock = 1

type ProductsImported struct {
	Count int `json:"count"`
}

// importProducts is the one tool that delegates back to the model: the
// extractor issues a tool-less completion that turns free text into
// structured product records.
func (r *Registry) importProducts(ctx context.Context, rc contractx.RequestContext, call contractx.ToolCall, args map[string]any) contractx.ToolResult {
	text, ok := stringArg(args, "productListText", "text")
	if !ok {
		return failure(call, "No product text was provided.")
	}

	records, err := r.extractor.Extract(ctx, text)
	if err != nil {
		if errors.Is(err, extract.ErrParse) {
			return failure(call, "Failed to parse product data.")
		}
		return failure(call, "Failed to extract products from the text.")
	}

	products := make([]*storex.Product, 0, len(records))
	for _, rec := range records {
		if rec.Name == "" {
			continue
		}
		sku := rec.SKU
		if sku == "" {
			sku = r.generateSKU()
		}
		products = append(products, &storex.Product{
			UserID:        rc.UserID,
			Name:          rec.Name,
			Price:         rec.Price,
			StockQuantity: defaultImportStock,
			SKU:           sku,
			Source:        storex.SourceAIExtraction,
		})
	}
	if len(products) == 0 {
		return failure(call, "No products could be extracted from the text.")
	}

	if err := r.store.InsertProducts(ctx, products); err != nil {
		return failure(call, "Failed to import the extracted products.")
	}

	for _, p := range products {
		_ = r.store.InsertInventoryLog(ctx, &storex.InventoryLog{
			UserID:    rc.UserID,
			ProductID: p.ID,
			Change:    p.StockQuantity,
			Reason:    "ai_extraction",
		})
	}

	return success(call, ProductsImported{Count: len(products)})
}
