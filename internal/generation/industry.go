package generation

import "strings"

// Template classifiers. Each template carries one supplementary section on
// top of the shared testimonials block.
const (
	TemplateRestaurant   = "restaurant"
	TemplateRetail       = "retail"
	TemplateFitness      = "fitness"
	TemplateProfessional = "professional"
)

var templateKeywords = []struct {
	template string
	keywords []string
}{
	{TemplateRestaurant, []string{
		"restaurant", "cafe", "catering", "food", "bar", "pub", "bistro", "bakery", "toitlustus",
	}},
	{TemplateRetail, []string{
		"retail", "shop", "store", "commerce", "boutique", "trade", "kaubandus", "müük",
	}},
	{TemplateFitness, []string{
		"fitness", "gym", "sport", "yoga", "wellness", "training", "spordiklubi",
	}},
	{TemplateProfessional, []string{
		"consult", "legal", "account", "law", "finance", "software", "engineering", "agency",
	}},
}

// TemplateForCategory maps a free-form registry category onto one of the
// four templates. Unmapped categories land in the professional bucket.
func TemplateForCategory(category string) string {
	lower := strings.ToLower(category)
	for _, entry := range templateKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.template
			}
		}
	}
	return TemplateProfessional
}
