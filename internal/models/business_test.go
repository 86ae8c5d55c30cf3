package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_PrefersCanonicalKeys(t *testing.T) {
	rec := ExternalBusinessRecord{
		"name":      "Tartu Grill House",
		"category":  "restaurant",
		"address":   "Raekoja plats 1",
		"city":      "Tartu",
		"email":     "owner@tartugrill.ee",
		"employees": float64(12), // JSON numbers decode as float64
	}

	biz := Normalize("12345678", rec)

	assert.Equal(t, "12345678", biz.ID)
	assert.Equal(t, "Tartu Grill House", biz.Name)
	assert.Equal(t, "restaurant", biz.Category)
	assert.Equal(t, "Tartu", biz.City)
	assert.Equal(t, 12, biz.Employees)
}

func TestNormalize_ResolvesNativeLanguageAliases(t *testing.T) {
	rec := ExternalBusinessRecord{
		"arinimi":    "Kask ja Pojad OÜ",
		"tegevusala": "kaubandus",
		"aadress":    "Pikk 12",
		"linn":       "Tallinn",
	}

	biz := Normalize("87654321", rec)

	assert.Equal(t, "Kask ja Pojad OÜ", biz.Name)
	assert.Equal(t, "kaubandus", biz.Category)
	assert.Equal(t, "Pikk 12", biz.Address)
	assert.Equal(t, "Tallinn", biz.City)
}

func TestNormalize_InvariantFieldsAlwaysPopulated(t *testing.T) {
	biz := Normalize("12345678", ExternalBusinessRecord{})

	assert.Equal(t, "12345678", biz.ID)
	assert.Equal(t, "12345678", biz.Name) // falls back to the identifier
	assert.Equal(t, "general", biz.Category)
}

func TestNormalize_IdentifierFallsBackToRecordID(t *testing.T) {
	rec := ExternalBusinessRecord{
		"reg_code": "11223344",
		"name":     "Mustamäe Auto",
	}

	biz := Normalize("", rec)

	assert.Equal(t, "11223344", biz.ID)
}

func TestExternalBusinessRecord_Status(t *testing.T) {
	assert.Equal(t, "active", ExternalBusinessRecord{"status": "active"}.Status())
	assert.Equal(t, "R", ExternalBusinessRecord{"staatus": "R"}.Status())
	assert.Equal(t, "", ExternalBusinessRecord{}.Status())
}

func TestStringField_SkipsBlankAndNonStringValues(t *testing.T) {
	rec := ExternalBusinessRecord{
		"name":       "   ",
		"name_latin": 42,
		"legal_name": "Fallback OÜ",
	}

	assert.Equal(t, "Fallback OÜ", Normalize("1", rec).Name)
}
