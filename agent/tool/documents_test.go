package tool

import (
	"context"
	"strings"
	"testing"

	storex "github.com/storepilot/storepilot/store"
)

func TestInferDocKind(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"refund policy please":           DocRefundPolicy,
		"our RETURNS process":            DocRefundPolicy,
		"privacy policy":                 DocPrivacyPolicy,
		"invoice for order #12":          DocInvoice,
		"terms of service for my store":  DocGeneric,
		"":                               DocGeneric,
	}
	for in, want := range cases {
		if got := inferDocKind(in); got != want {
			t.Errorf("inferDocKind(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCreateDocumentRefundPolicy(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, newFakeStore(), &fakeExtractor{})
	res := r.Execute(context.Background(), rc(), call(ToolCreateDocument, map[string]any{
		"docType": "refund policy",
		"details": "14 day window",
	}))
	if !res.Success {
		t.Fatalf("createDocument failed: %s", res.Error)
	}
	doc := res.Data.(DocumentDrafted)
	if doc.DocType != DocRefundPolicy {
		t.Errorf("docType = %q, want %q", doc.DocType, DocRefundPolicy)
	}
	if !strings.Contains(doc.Body, "14 day window") {
		t.Error("details not woven into the draft body")
	}
}

func TestCreateDocumentHonorsTypeAlias(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, newFakeStore(), &fakeExtractor{})
	res := r.Execute(context.Background(), rc(), call(ToolCreateDocument, map[string]any{
		"type":    "privacy policy",
		"content": "we use cookies",
	}))
	if !res.Success {
		t.Fatalf("createDocument failed: %s", res.Error)
	}
	if got := res.Data.(DocumentDrafted).DocType; got != DocPrivacyPolicy {
		t.Errorf("docType = %q, want %q", got, DocPrivacyPolicy)
	}
}

func TestCreateDocumentInvoice(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	st.orders = []*storex.Order{{ID: 3, UserID: "user_1", OrderNumber: "78"}}
	r := newTestRegistry(t, st, &fakeExtractor{})

	res := r.Execute(context.Background(), rc(), call(ToolCreateDocument, map[string]any{
		"docType": "invoice",
		"details": "invoice for order #78",
	}))
	if !res.Success {
		t.Fatalf("createDocument failed: %s", res.Error)
	}
	inv := res.Data.(InvoiceIssued)
	if inv.OrderNumber != "78" {
		t.Errorf("order number = %q, want 78", inv.OrderNumber)
	}
	if inv.URL != "https://preview.test/invoices/78" {
		t.Errorf("url = %q", inv.URL)
	}
}

func TestCreateDocumentInvoiceWithoutOrderNumber(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, newFakeStore(), &fakeExtractor{})
	res := r.Execute(context.Background(), rc(), call(ToolCreateDocument, map[string]any{
		"docType": "invoice",
		"details": "invoice for my latest order",
	}))
	if res.Success {
		t.Fatal("invoice without an order number must fail")
	}
	if !strings.Contains(res.Error, "order number") {
		t.Errorf("error = %q", res.Error)
	}
}

func TestCreateDocumentInvoiceOrderMissing(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, newFakeStore(), &fakeExtractor{})
	res := r.Execute(context.Background(), rc(), call(ToolCreateDocument, map[string]any{
		"docType": "invoice",
		"details": "invoice for order 500",
	}))
	if res.Success {
		t.Fatal("invoice for an unknown order must fail")
	}
	if !strings.Contains(res.Error, `"500"`) {
		t.Errorf("error should quote the order number, got %q", res.Error)
	}
}
