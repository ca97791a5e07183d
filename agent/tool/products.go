package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	contractx "github.com/storepilot/storepilot/agent/contract"
	storex "github.com/storepilot/storepilot/store"
)

const defaultNewProductStock = 1

type ProductCreated struct {
	ID    int64   `json:"id"`
	Name  string  `json:"productName"`
	SKU   string  `json:"sku"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type ProductUpdated struct {
	Name          string   `json:"productName"`
	SKU           string   `json:"sku"`
	UpdatedFields []string `json:"updatedFields"`
}

type ProductDeleted struct {
	Name string `json:"productName"`
	SKU  string `json:"sku"`
}

type ProductSummary struct {
	Name  string  `json:"name"`
	SKU   string  `json:"sku"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type ProductList struct {
	Count    int              `json:"count"`
	Products []ProductSummary `json:"products"`
}

func (r *Registry) addProduct(ctx context.Context, rc contractx.RequestContext, call contractx.ToolCall, args map[string]any) contractx.ToolResult {
	name, ok := stringArg(args, "name")
	if !ok {
		return failure(call, "product name is required")
	}
	price, ok := numberArg(args, "price")
	if !ok || price < 0 {
		return failure(call, "a non-negative price is required")
	}

	stock := defaultNewProductStock
	if v, ok := intArg(args, "stock", "stockQuantity"); ok && v >= 0 {
		stock = v
	}
	sku, ok := stringArg(args, "sku")
	if !ok {
		sku = r.generateSKU()
	}
	description, _ := stringArg(args, "description")

	p := &storex.Product{
		UserID:        rc.UserID,
		Name:          name,
		Description:   description,
		Price:         price,
		StockQuantity: stock,
		SKU:           sku,
		Source:        storex.SourceManual,
	}
	if err := r.store.InsertProduct(ctx, p); err != nil {
		return failure(call, "Failed to create product.")
	}

	if stock > 0 {
		// Audit trail only; a logging failure must not fail the creation.
		_ = r.store.InsertInventoryLog(ctx, &storex.InventoryLog{
			UserID:    rc.UserID,
			ProductID: p.ID,
			Change:    stock,
			Reason:    "initial_stock",
		})
	}

	return success(call, ProductCreated{
		ID:    p.ID,
		Name:  p.Name,
		SKU:   p.SKU,
		Price: p.Price,
		Stock: p.StockQuantity,
	})
}

func (r *Registry) editProduct(ctx context.Context, rc contractx.RequestContext, call contractx.ToolCall, args map[string]any) contractx.ToolResult {
	identifier, ok := stringArg(args, "identifier")
	if !ok {
		return failure(call, "product identifier is required")
	}

	var (
		patch   storex.ProductPatch
		updated []string
	)
	if v, ok := numberArg(args, "price"); ok {
		patch.Price = &v
		updated = append(updated, "price")
	}
	if v, ok := intArg(args, "stockQuantity", "stock"); ok {
		patch.StockQuantity = &v
		updated = append(updated, "stock")
	}
	if v, ok := stringArg(args, "name"); ok {
		patch.Name = &v
		updated = append(updated, "name")
	}
	if v, ok := stringArg(args, "description"); ok {
		patch.Description = &v
		updated = append(updated, "description")
	}
	if len(updated) == 0 {
		return failure(call, "nothing to update: provide a price, stock, name, or description")
	}

	p, err := r.store.FindProduct(ctx, rc.UserID, identifier)
	if err != nil {
		if errors.Is(err, storex.ErrNotFound) {
			return failure(call, fmt.Sprintf("Failed to update product: no product matches %q.", identifier))
		}
		return failure(call, "Failed to update product.")
	}

	if err := r.store.UpdateProduct(ctx, rc.UserID, p.ID, patch); err != nil {
		return failure(call, "Failed to update product.")
	}

	if patch.StockQuantity != nil && *patch.StockQuantity != p.StockQuantity {
		_ = r.store.InsertInventoryLog(ctx, &storex.InventoryLog{
			UserID:    rc.UserID,
			ProductID: p.ID,
			Change:    *patch.StockQuantity - p.StockQuantity,
			Reason:    "manual_adjustment",
		})
	}

	name := p.Name
	if patch.Name != nil {
		name = *patch.Name
	}
	return success(call, ProductUpdated{
		Name:          name,
		SKU:           p.SKU,
		UpdatedFields: updated,
	})
}

func (r *Registry) deleteProduct(ctx context.Context, rc contractx.RequestContext, call contractx.ToolCall, args map[string]any) contractx.ToolResult {
	identifier, ok := stringArg(args, "identifier")
	if !ok {
		return failure(call, "product identifier is required")
	}

	p, err := r.store.FindProduct(ctx, rc.UserID, identifier)
	if err != nil {
		if errors.Is(err, storex.ErrNotFound) {
			return failure(call, fmt.Sprintf("Failed to delete product: no product matches %q.", identifier))
		}
		return failure(call, "Failed to delete product.")
	}

	if err := r.store.DeleteProduct(ctx, rc.UserID, p.ID); err != nil {
		return failure(call, "Failed to delete product.")
	}

	return success(call, ProductDeleted{Name: p.Name, SKU: p.SKU})
}

func (r *Registry) listProducts(ctx context.Context, rc contractx.RequestContext, call contractx.ToolCall, args map[string]any) contractx.ToolResult {
	filter := storex.ProductFilter{}
	if v, ok := intArg(args, "limit"); ok && v > 0 {
		filter.Limit = v
	}
	if v, ok := stringArg(args, "searchQuery"); ok {
		filter.Search = v
	}
	if v, ok := stringArg(args, "status"); ok {
		filter.Status = v
	}

	ps, err := r.store.ListProducts(ctx, rc.UserID, filter)
	if err != nil {
		return failure(call, "Failed to list products.")
	}

	out := ProductList{Count: len(ps), Products: make([]ProductSummary, 0, len(ps))}
	for _, p := range ps {
		out.Products = append(out.Products, ProductSummary{
			Name:  p.Name,
			SKU:   p.SKU,
			Price: p.Price,
			Stock: p.StockQuantity,
		})
	}
	return success(call, out)
}

func (r *Registry) generateSKU() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("SKU-%d-%s", r.now().UnixMilli(), suffix)
}
