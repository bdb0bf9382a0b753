package services

import (
	"fmt"
	"regexp"
	"strings"
)

// sectorAbbrev maps sector labels to ID components. Unknown sectors
// collapse to "GEN".
var sectorAbbrev = map[string]string{
	"Health":           "HLTH",
	"MHPSS":            "MHPSS",
	"Nutrition":        "NUT",
	"WASH":             "WASH",
	"GBV":              "GBV",
	"Child Protection": "CP",
	"FSL":              "FSL",
	"Cross-Cutting":    "CC",
	"Mixed":            "MX",
}

// typeAbbrev maps document types to ID components. Unknown types
// collapse to "DOC".
var typeAbbrev = map[string]string{
	"standard":        "STD",
	"assessment_tool": "ASMT",
	"guideline":       "GUID",
	"tool":            "TOOL",
	"policy":          "POL",
	"example":         "EX",
	"resource":        "RES",
}

var (
	nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]`)
	fourDigitRun    = regexp.MustCompile(`\d{4}`)
)

// GenerateDocID derives the deterministic document identifier
// SECTOR_TYPE_PUBLISHER_YEAR_VERSION. The ID is readable rather than
// unique: documents sharing sector, type, publisher and year collide,
// and the version suffix is the manual disambiguator.
func GenerateDocID(sector, docType, publisher, year, version string) string {
	if version == "" {
		version = "v1"
	}

	sectorPart, ok := sectorAbbrev[sector]
	if !ok {
		sectorPart = "GEN"
	}
	typePart, ok := typeAbbrev[docType]
	if !ok {
		typePart = "DOC"
	}

	pubPart := nonAlphanumeric.ReplaceAllString(strings.ToUpper(publisher), "")
	if len(pubPart) > 8 {
		pubPart = pubPart[:8]
	}
	if pubPart == "" {
		pubPart = "UNK"
	}

	yearPart := fourDigitRun.FindString(year)
	if yearPart == "" {
		yearPart = "UNKN"
	}

	return fmt.Sprintf("%s_%s_%s_%s_%s", sectorPart, typePart, pubPart, yearPart, version)
}
