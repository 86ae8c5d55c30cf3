// Package content defines the generated content bundle and its canonical
// fallback values.
package content

// Offering is one product or service on the generated page.
type Offering struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price,omitempty"`
}

// SEOMeta is the metadata generated for the canonical page.
type SEOMeta struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// Palette is the 3-color brand palette, 6-digit hex values.
type Palette struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// Typography is the 2-font pairing for headings and body text.
type Typography struct {
	HeadingFont string `json:"heading_font"`
	BodyFont    string `json:"body_font"`
}

// MenuItem belongs to the restaurant supplementary section.
type MenuItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price,omitempty"`
}

// CatalogItem belongs to the retail supplementary section.
type CatalogItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price,omitempty"`
}

// ClassSession belongs to the fitness supplementary section.
type ClassSession struct {
	Name       string `json:"name"`
	Day        string `json:"day"`
	Time       string `json:"time"`
	Instructor string `json:"instructor,omitempty"`
}

// TeamMember belongs to the professional-services supplementary section.
type TeamMember struct {
	Name string `json:"name"`
	Role string `json:"role"`
	Bio  string `json:"bio,omitempty"`
}

// Testimonial is generated for every business regardless of template.
type Testimonial struct {
	Author string `json:"author"`
	Quote  string `json:"quote"`
	Rating int    `json:"rating"`
}

// Intelligence is the optional structured business-intelligence summary.
type Intelligence struct {
	CompetitorEstimate string   `json:"competitor_estimate"`
	MarketPosition     string   `json:"market_position"`
	Opportunities      []string `json:"opportunities"`
	Recommendations    []string `json:"recommendations"`
	AudienceSegments   []string `json:"audience_segments"`
	Differentiators    []string `json:"differentiators"`
}

// DistributionPost is platform-specific announcement copy keyed to the
// canonical URL.
type DistributionPost struct {
	Platform string `json:"platform"`
	Text     string `json:"text"`
}

// BrandPlaceholder is the deterministic vector placeholder derived from the
// business name and palette. It never depends on an external call.
type BrandPlaceholder struct {
	Style    string   `json:"style"` // initials, wordmark, or icon
	Initials string   `json:"initials,omitempty"`
	Wordmark string   `json:"wordmark,omitempty"`
	Colors   []string `json:"colors"`
}

// Bundle is the orchestrator's primary artifact. The primary generation
// stage owns the hero, narrative, offerings, SEO, palette, typography,
// brand prompt and template tag; later stages attach supplementary sections
// but never rewrite the primary fields.
type Bundle struct {
	HeroTitle    string     `json:"hero_title"`
	HeroSubtitle string     `json:"hero_subtitle"`
	About        string     `json:"about"`
	Offerings    []Offering `json:"offerings"`

	SEO        SEOMeta     `json:"seo"`
	Palette    *Palette    `json:"palette,omitempty"`
	Typography *Typography `json:"typography,omitempty"`

	BrandPrompt  string `json:"brand_prompt,omitempty"`
	TemplateType string `json:"template_type"`

	Menu         []MenuItem     `json:"menu,omitempty"`
	Products     []CatalogItem  `json:"products,omitempty"`
	Schedule     []ClassSession `json:"schedule,omitempty"`
	Team         []TeamMember   `json:"team,omitempty"`
	Testimonials []Testimonial  `json:"testimonials,omitempty"`

	Intelligence     *Intelligence      `json:"intelligence,omitempty"`
	Distribution     []DistributionPost `json:"distribution,omitempty"`
	BrandPlaceholder *BrandPlaceholder  `json:"brand_placeholder,omitempty"`
	WelcomeMessage   string             `json:"welcome_message,omitempty"`
}
