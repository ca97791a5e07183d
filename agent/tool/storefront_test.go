package tool

import (
	"context"
	"errors"
	"strings"
	"testing"

	storex "github.com/storepilot/storepilot/store"
)

func TestSetupStorefront(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	r := newTestRegistry(t, st, &fakeExtractor{})

	res := r.Execute(context.Background(), rc(), call(ToolSetupStorefront, map[string]any{
		"businessName": "Ada's Candle Co.",
		"niche":        "home fragrance",
	}))
	if !res.Success {
		t.Fatalf("setupStorefront failed: %s", res.Error)
	}

	ready := res.Data.(StorefrontReady)
	if ready.StoreName != "Ada's Candle Co." {
		t.Errorf("store name = %q", ready.StoreName)
	}
	if ready.PreviewURL != "https://preview.test/store/ada-s-candle-co" {
		t.Errorf("preview url = %q", ready.PreviewURL)
	}
	if st.upserted == nil || st.upserted.Niche != "home fragrance" {
		t.Errorf("settings not persisted: %+v", st.upserted)
	}
}

func TestSetupStorefrontStoreNameAlias(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	r := newTestRegistry(t, st, &fakeExtractor{})

	res := r.Execute(context.Background(), rc(), call(ToolSetupStorefront, map[string]any{
		"storeName": "Lagos Threads",
	}))
	if !res.Success {
		t.Fatalf("setupStorefront failed: %s", res.Error)
	}
	if st.upserted.StoreName != "Lagos Threads" {
		t.Errorf("store name = %q", st.upserted.StoreName)
	}
}

func TestSetupStorefrontRequiresName(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, newFakeStore(), &fakeExtractor{})
	res := r.Execute(context.Background(), rc(), call(ToolSetupStorefront, map[string]any{
		"niche": "fashion",
	}))
	if res.Success {
		t.Fatal("setupStorefront without a name must fail")
	}
}

func TestCustomizeBrandingPartialPatch(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	st.settings = &storex.StoreSettings{UserID: "user_1", StoreName: "Lagos Threads", Slug: "lagos-threads"}
	r := newTestRegistry(t, st, &fakeExtractor{})

	res := r.Execute(context.Background(), rc(), call(ToolCustomizeBranding, map[string]any{
		"primaryColor": "#FF5733",
		"hero_title":   "Bold looks, Lagos prices",
	}))
	if !res.Success {
		t.Fatalf("customizeBranding failed: %s", res.Error)
	}

	if st.branding.PrimaryColor == nil || *st.branding.PrimaryColor != "#FF5733" {
		t.Error("primary color not patched")
	}
	if st.branding.HeroTitle == nil || *st.branding.HeroTitle != "Bold looks, Lagos prices" {
		t.Error("hero title not patched via snake_case alias")
	}
	if st.branding.AccentColor != nil {
		t.Error("untouched field must stay nil")
	}

	applied := res.Data.(BrandingApplied)
	if len(applied.UpdatedFields) != 2 {
		t.Errorf("updated fields = %v, want 2 entries", applied.UpdatedFields)
	}
}

func TestCustomizeBrandingCamelCaseWins(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	st.settings = &storex.StoreSettings{UserID: "user_1", Slug: "shop"}
	r := newTestRegistry(t, st, &fakeExtractor{})

	res := r.Execute(context.Background(), rc(), call(ToolCustomizeBranding, map[string]any{
		"primaryColor":  "navy",
		"primary_color": "crimson",
	}))
	if !res.Success {
		t.Fatalf("customizeBranding failed: %s", res.Error)
	}
	if *st.branding.PrimaryColor != "navy" {
		t.Errorf("primary color = %q, want the camelCase value", *st.branding.PrimaryColor)
	}
}

func TestCustomizeBrandingNoFields(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, newFakeStore(), &fakeExtractor{})
	res := r.Execute(context.Background(), rc(), call(ToolCustomizeBranding, map[string]any{}))
	if res.Success {
		t.Fatal("empty branding patch must fail")
	}
	if !strings.Contains(res.Error, "no branding fields") {
		t.Errorf("error = %q", res.Error)
	}
}

func TestCustomizeBrandingWithoutStorefront(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	st.applyBrandingErr = errors.New("no settings row")
	r := newTestRegistry(t, st, &fakeExtractor{})

	res := r.Execute(context.Background(), rc(), call(ToolCustomizeBranding, map[string]any{
		"primaryColor": "navy",
	}))
	if res.Success {
		t.Fatal("branding without a storefront must fail")
	}
	if !strings.Contains(res.Error, "Set up your storefront first") {
		t.Errorf("error = %q", res.Error)
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Ada's Candle Co.": "ada-s-candle-co",
		"Lagos  Threads":   "lagos-threads",
		"SHOP 24/7":        "shop-24-7",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
