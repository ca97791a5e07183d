package tool

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	contractx "github.com/storepilot/storepilot/agent/contract"
	storex "github.com/storepilot/storepilot/store"
)

type StorefrontReady struct {
	StoreName  string `json:"storeName"`
	PreviewURL string `json:"previewUrl"`
}

type BrandingApplied struct {
	StoreName     string   `json:"storeName"`
	PreviewURL    string   `json:"previewUrl"`
	UpdatedFields []string `json:"updatedFields"`
}

func (r *Registry) setupStorefront(ctx context.Context, rc contractx.RequestContext, call contractx.ToolCall, args map[string]any) contractx.ToolResult {
	name, ok := stringArg(args, "businessName", "storeName")
	if !ok {
		return failure(call, "a business name is required")
	}
	niche, _ := stringArg(args, "niche")

	settings := &storex.StoreSettings{
		UserID:    rc.UserID,
		StoreName: name,
		Niche:     niche,
		Slug:      slugify(name),
	}
	if err := r.store.UpsertSettings(ctx, settings); err != nil {
		return failure(call, "Failed to set up the storefront.")
	}

	return success(call, StorefrontReady{
		StoreName:  name,
		PreviewURL: r.previewURL(settings.Slug),
	})
}

func (r *Registry) customizeBranding(ctx context.Context, rc contractx.RequestContext, call contractx.ToolCall, args map[string]any) contractx.ToolResult {
	var (
		patch   storex.BrandingPatch
		updated []string
	)
	if v, ok := stringArg(args, "primaryColor", "primary_color"); ok {
		patch.PrimaryColor = &v
		updated = append(updated, "primary color")
	}
	if v, ok := stringArg(args, "accentColor", "accent_color"); ok {
		patch.AccentColor = &v
		updated = append(updated, "accent color")
	}
	if v, ok := stringArg(args, "headingFont", "heading_font"); ok {
		patch.HeadingFont = &v
		updated = append(updated, "heading font")
	}
	if v, ok := stringArg(args, "bodyFont", "body_font"); ok {
		patch.BodyFont = &v
		updated = append(updated, "body font")
	}
	if v, ok := stringArg(args, "heroTitle", "hero_title"); ok {
		patch.HeroTitle = &v
		updated = append(updated, "hero title")
	}
	if v, ok := stringArg(args, "heroSubtitle", "hero_subtitle"); ok {
		patch.HeroSubtitle = &v
		updated = append(updated, "hero subtitle")
	}
	if len(updated) == 0 {
		return failure(call, "no branding fields were provided")
	}

	settings, err := r.store.ApplyBranding(ctx, rc.UserID, patch)
	if err != nil {
		return failure(call, "Failed to update branding. Set up your storefront first.")
	}

	return success(call, BrandingApplied{
		StoreName:     settings.StoreName,
		PreviewURL:    r.previewURL(settings.Slug),
		UpdatedFields: updated,
	})
}

func (r *Registry) previewURL(slug string) string {
	return fmt.Sprintf("%s/store/%s", r.previewBase, slug)
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
