package generation

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"bizgen/internal/common/retry"
	"bizgen/internal/content"
	"bizgen/internal/models"
	"bizgen/internal/notify"
)

// ==========================================================================
// Fatal stages: fetch and primary bundle
// ==========================================================================

func (o *Orchestrator) stageFetch(ctx context.Context, result *Result) (models.NormalizedBusiness, error) {
	rec, err := retry.Do(ctx, func(ctx context.Context) (models.ExternalBusinessRecord, error) {
		return o.fetcher.GetByID(ctx, result.BusinessID)
	}, o.attempts, o.retryDelay, o.log)
	if err != nil {
		return models.NormalizedBusiness{}, err
	}

	biz := models.Normalize(result.BusinessID, rec)
	o.log.Debug("business record normalized", map[string]interface{}{
		"business_id": biz.ID,
		"name":        biz.Name,
		"category":    biz.Category,
	})
	return biz, nil
}

func (o *Orchestrator) stagePrimary(ctx context.Context, result *Result, biz models.NormalizedBusiness, template string) (*content.Bundle, error) {
	var payload struct {
		HeroTitle    string              `json:"hero_title"`
		HeroSubtitle string              `json:"hero_subtitle"`
		About        string              `json:"about"`
		Offerings    []content.Offering  `json:"offerings"`
		Palette      *content.Palette    `json:"palette"`
		Typography   *content.Typography `json:"typography"`
		BrandPrompt  string              `json:"brand_prompt"`
	}

	system := "You are a copywriter for small-business websites. " +
		"Respond with a single JSON object matching the requested fields exactly. No prose outside the JSON."
	user := fmt.Sprintf(
		"Write the core website content for this business.\n%s\n"+
			"Produce: hero_title (20-80 chars), hero_subtitle (30-150 chars), "+
			"about (2-3 paragraphs, at least 100 words, separated by blank lines), "+
			"offerings (3-8 items with name, description of at least 20 chars, and an indicative price), "+
			"palette (primary, secondary, accent as 6-digit hex without '#'), "+
			"typography (heading_font, body_font) and brand_prompt (one sentence describing a logo).",
		businessContext(biz))

	_, err := retry.Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, o.completeJSON(ctx, result, "primary", system, user, primaryBundleSchema, &payload)
	}, o.attempts, o.retryDelay, o.log)
	if err != nil {
		return nil, err
	}

	bundle := &content.Bundle{
		HeroTitle:    payload.HeroTitle,
		HeroSubtitle: payload.HeroSubtitle,
		About:        payload.About,
		Offerings:    payload.Offerings,
		Palette:      payload.Palette,
		Typography:   payload.Typography,
		BrandPrompt:  payload.BrandPrompt,
		TemplateType: template,
	}
	content.ApplyDefaults(bundle, biz)
	return bundle, nil
}

// ==========================================================================
// Degradable stages
// ==========================================================================

func (o *Orchestrator) stageVerify(ctx context.Context, result *Result, biz models.NormalizedBusiness) *models.VerificationResult {
	verification := o.verifier.Verify(ctx, biz)
	if !verification.Verified {
		result.warn("verification", fmt.Sprintf(
			"business could not be verified (trust score %d); content will carry no verified badge",
			verification.TrustScore))
	}
	return verification
}

func (o *Orchestrator) stageClassify(result *Result, biz models.NormalizedBusiness) string {
	template := TemplateForCategory(biz.Category)
	o.log.Debug("template classified", map[string]interface{}{
		"business_id": biz.ID,
		"category":    biz.Category,
		"template":    template,
	})
	return template
}

func (o *Orchestrator) stageSEO(ctx context.Context, result *Result, biz models.NormalizedBusiness, bundle *content.Bundle) {
	var payload content.SEOMeta

	system := "You are an SEO specialist. Respond with a single JSON object only."
	user := fmt.Sprintf(
		"Write SEO metadata for this business website.\n%s\n"+
			"Produce: title (30-60 chars), description (100-160 chars) and keywords (5-10 strings).",
		businessContext(biz))

	if err := o.completeJSON(ctx, result, "seo", system, user, seoSchema, &payload); err != nil {
		result.warn("seo", "generation failed; using fallback metadata")
		payload = content.Defaults(biz).SEO
	}
	bundle.SEO = payload
}

func (o *Orchestrator) stageSupplementary(ctx context.Context, result *Result, biz models.NormalizedBusiness, bundle *content.Bundle, template string) {
	system := "You are a copywriter for small-business websites. Respond with a single JSON object only."
	info := businessContext(biz)

	switch template {
	case TemplateRestaurant:
		var payload struct {
			Items []content.MenuItem `json:"items"`
		}
		user := fmt.Sprintf("Write a sample menu for this restaurant.\n%s\nProduce items: 6-10 dishes with name, description and price.", info)
		if err := o.completeJSON(ctx, result, "menu", system, user, menuSchema, &payload); err != nil {
			result.warn("menu", "generation failed; section omitted")
			payload.Items = []content.MenuItem{}
		}
		bundle.Menu = payload.Items

	case TemplateRetail:
		var payload struct {
			Items []content.CatalogItem `json:"items"`
		}
		user := fmt.Sprintf("Write a featured-products section for this shop.\n%s\nProduce items: 6-10 products with name, description and price.", info)
		if err := o.completeJSON(ctx, result, "products", system, user, productsSchema, &payload); err != nil {
			result.warn("products", "generation failed; section omitted")
			payload.Items = []content.CatalogItem{}
		}
		bundle.Products = payload.Items

	case TemplateFitness:
		var payload struct {
			Items []content.ClassSession `json:"items"`
		}
		user := fmt.Sprintf("Write a weekly class schedule for this fitness business.\n%s\nProduce items: 6-12 sessions with name, day, time and instructor.", info)
		if err := o.completeJSON(ctx, result, "schedule", system, user, scheduleSchema, &payload); err != nil {
			result.warn("schedule", "generation failed; section omitted")
			payload.Items = []content.ClassSession{}
		}
		bundle.Schedule = payload.Items

	default:
		var payload struct {
			Items []content.TeamMember `json:"items"`
		}
		user := fmt.Sprintf("Write a team section for this business.\n%s\nProduce items: 3-6 members with name, role and a one-sentence bio.", info)
		if err := o.completeJSON(ctx, result, "team", system, user, teamSchema, &payload); err != nil {
			result.warn("team", "generation failed; section omitted")
			payload.Items = []content.TeamMember{}
		}
		bundle.Team = payload.Items
	}
}

func (o *Orchestrator) stageTestimonials(ctx context.Context, result *Result, biz models.NormalizedBusiness, bundle *content.Bundle) {
	var payload struct {
		Items []content.Testimonial `json:"items"`
	}

	system := "You are a copywriter for small-business websites. Respond with a single JSON object only."
	user := fmt.Sprintf(
		"Write three plausible customer testimonials for this business.\n%s\n"+
			"Produce items with author (first name and last initial), quote (1-2 sentences) and rating (4 or 5).",
		businessContext(biz))

	if err := o.completeJSON(ctx, result, "testimonials", system, user, testimonialsSchema, &payload); err != nil {
		result.warn("testimonials", "generation failed; section omitted")
		payload.Items = []content.Testimonial{}
	}
	bundle.Testimonials = payload.Items
}

func (o *Orchestrator) stageIntelligence(ctx context.Context, result *Result, biz models.NormalizedBusiness, bundle *content.Bundle) {
	var payload content.Intelligence

	system := "You are a market analyst for small businesses. Respond with a single JSON object only."
	user := fmt.Sprintf(
		"Write a short market-position summary for this business.\n%s\n"+
			"Produce: competitor_estimate, market_position, opportunities, recommendations, audience_segments, differentiators.",
		businessContext(biz))

	if err := o.completeJSON(ctx, result, "intelligence", system, user, intelligenceSchema, &payload); err != nil {
		result.warn("intelligence", "generation failed; summary omitted")
		return
	}
	bundle.Intelligence = &payload
}

// stageBranding derives the placeholder from the business name and palette
// alone, so it always succeeds.
func (o *Orchestrator) stageBranding(result *Result, biz models.NormalizedBusiness, bundle *content.Bundle) {
	palette := bundle.Palette
	if palette == nil {
		palette = &content.Palette{Primary: "1f2937", Secondary: "6b7280", Accent: "2563eb"}
	}

	placeholder := &content.BrandPlaceholder{
		Colors: []string{palette.Primary, palette.Accent},
	}

	h := fnv.New32a()
	h.Write([]byte(biz.Name))
	switch h.Sum32() % 3 {
	case 0:
		placeholder.Style = "initials"
		placeholder.Initials = initialsOf(biz.Name)
	case 1:
		placeholder.Style = "wordmark"
		placeholder.Wordmark = biz.Name
	default:
		placeholder.Style = "icon"
		placeholder.Initials = initialsOf(biz.Name)
	}
	bundle.BrandPlaceholder = placeholder

	if strings.TrimSpace(bundle.BrandPrompt) == "" {
		bundle.BrandPrompt = fmt.Sprintf("Minimal flat logo for %s, a %s business", biz.Name, biz.Category)
	}
}

func (o *Orchestrator) stageDistribution(ctx context.Context, result *Result, biz models.NormalizedBusiness, bundle *content.Bundle, canonicalURL string) {
	var payload struct {
		Posts []content.DistributionPost `json:"posts"`
	}

	system := "You are a social media copywriter. Respond with a single JSON object only."
	user := fmt.Sprintf(
		"Write launch announcement posts for facebook, instagram and linkedin for this business's new website at %s.\n%s\n"+
			"Produce posts with platform and text; every post must mention the URL.",
		canonicalURL, businessContext(biz))

	if err := o.completeJSON(ctx, result, "distribution", system, user, distributionSchema, &payload); err != nil {
		result.warn("distribution", "generation failed; using plain announcements")
		payload.Posts = fallbackDistribution(biz, canonicalURL)
	}
	bundle.Distribution = payload.Posts
}

func (o *Orchestrator) stageWelcome(ctx context.Context, result *Result, biz models.NormalizedBusiness, bundle *content.Bundle, canonicalURL string) {
	var payload struct {
		Message string `json:"message"`
	}

	system := "You write short, warm onboarding emails. Respond with a single JSON object only."
	user := fmt.Sprintf(
		"Write a welcome email body for the owner of %s. Their new website is live at %s. "+
			"Two short paragraphs, plain text.",
		biz.Name, canonicalURL)

	if err := o.completeJSON(ctx, result, "welcome", system, user, welcomeSchema, &payload); err != nil {
		result.warn("welcome", "generation failed; using plain welcome message")
		payload.Message = fmt.Sprintf(
			"Hello,\n\nThe new website for %s is live at %s. Have a look and reply to this address if anything needs adjusting.",
			biz.Name, canonicalURL)
	}
	bundle.WelcomeMessage = payload.Message
}

func (o *Orchestrator) deliverWelcome(ctx context.Context, result *Result, biz models.NormalizedBusiness, bundle *content.Bundle) {
	if biz.Email == "" {
		result.warn("welcome", "business has no email address; welcome message not sent")
		return
	}

	err := o.notifier.Send(ctx, notify.Message{
		Subject:  fmt.Sprintf("Your new website for %s is live", biz.Name),
		Body:     bundle.WelcomeMessage,
		Priority: notify.PriorityNormal,
		Channels: []string{notify.ChannelEmail},
		Email:    biz.Email,
	})
	if err != nil {
		result.warn("welcome", "welcome email could not be delivered")
	}
}

// ==========================================================================
// Helpers
// ==========================================================================

func businessContext(biz models.NormalizedBusiness) string {
	lines := []string{
		"Business: " + biz.Name,
		"Category: " + biz.Category,
	}
	if biz.City != "" {
		lines = append(lines, "City: "+biz.City)
	}
	if biz.Address != "" {
		lines = append(lines, "Address: "+biz.Address)
	}
	if biz.Description != "" {
		lines = append(lines, "Description: "+biz.Description)
	}
	if biz.Employees > 0 {
		lines = append(lines, fmt.Sprintf("Employees: %d", biz.Employees))
	}
	return strings.Join(lines, "\n")
}

func initialsOf(name string) string {
	var initials strings.Builder
	for _, word := range strings.Fields(name) {
		r := []rune(word)[0]
		if initials.Len() < 2 {
			initials.WriteRune(r)
		}
	}
	return strings.ToUpper(initials.String())
}

func fallbackDistribution(biz models.NormalizedBusiness, canonicalURL string) []content.DistributionPost {
	text := fmt.Sprintf("%s has a new website. Visit %s to see what they offer.", biz.Name, canonicalURL)
	return []content.DistributionPost{
		{Platform: "facebook", Text: text},
		{Platform: "instagram", Text: text},
		{Platform: "linkedin", Text: text},
	}
}
