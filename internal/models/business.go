// internal/models/business.go
package models

import "strings"

// ExternalBusinessRecord is the raw, loosely-typed record returned by the
// registry source. Field names vary between native-language exports and
// transliterated ones, so values are addressed through alias lists during
// normalization. Records are fetched per run, never mutated, and discarded
// once normalized.
type ExternalBusinessRecord map[string]interface{}

// Key aliases observed across registry exports, ordered by preference.
var (
	idKeys          = []string{"id", "reg_code", "registration_number"}
	nameKeys        = []string{"name", "name_latin", "legal_name", "arinimi"}
	categoryKeys    = []string{"category", "activity_area", "tegevusala"}
	addressKeys     = []string{"address", "legal_address", "aadress"}
	cityKeys        = []string{"city", "linn"}
	phoneKeys       = []string{"phone", "telefon", "contact_phone"}
	emailKeys       = []string{"email", "contact_email"}
	websiteKeys     = []string{"website", "homepage", "url"}
	descriptionKeys = []string{"description", "about", "kirjeldus"}
	employeeKeys    = []string{"employees", "employee_count", "tootajad"}
	statusKeys      = []string{"status", "staatus"}
)

func (r ExternalBusinessRecord) stringField(keys []string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func (r ExternalBusinessRecord) intField(keys []string) int {
	for _, k := range keys {
		switch v := r[k].(type) {
		case float64: // JSON numbers decode as float64
			return int(v)
		case int:
			return v
		}
	}
	return 0
}

// ID returns the registry identifier of the record.
func (r ExternalBusinessRecord) ID() string {
	return r.stringField(idKeys)
}

// Status returns the raw registry status of the record.
func (r ExternalBusinessRecord) Status() string {
	return r.stringField(statusKeys)
}

// NormalizedBusiness is the canonical shape used by all downstream stages.
// Name and Category are always present after Normalize.
type NormalizedBusiness struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Address     string `json:"address"`
	City        string `json:"city,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
	Employees   int    `json:"employees,omitempty"`
}

// Normalize maps a raw registry record to the canonical business shape.
// Name falls back to the registry identifier and Category to "general" so
// both invariant fields are always populated.
func Normalize(identifier string, rec ExternalBusinessRecord) NormalizedBusiness {
	biz := NormalizedBusiness{
		ID:          identifier,
		Name:        rec.stringField(nameKeys),
		Category:    rec.stringField(categoryKeys),
		Address:     rec.stringField(addressKeys),
		City:        rec.stringField(cityKeys),
		Phone:       rec.stringField(phoneKeys),
		Email:       rec.stringField(emailKeys),
		Website:     rec.stringField(websiteKeys),
		Description: rec.stringField(descriptionKeys),
		Employees:   rec.intField(employeeKeys),
	}

	if id := rec.ID(); biz.ID == "" {
		biz.ID = id
	}
	if biz.Name == "" {
		biz.Name = biz.ID
	}
	if biz.Category == "" {
		biz.Category = "general"
	}

	return biz
}
