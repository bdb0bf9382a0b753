package services

import "strings"

// sectorTable maps top-level knowledge-base directories to sector labels.
// Exact segment matches take precedence over keyword inference.
var sectorTable = map[string]string{
	"01_Cross_Cutting_Standards":                   "Cross-Cutting",
	"02_Sector_Standards_Policies":                 "Mixed",
	"03_Cross_Cutting_Assessment_Guidelines_Tools": "Cross-Cutting",
	"04_Sector_Assessment_Guidelines_Tools":        "Mixed",
	"05_Gold_Standard_Examples":                    "Mixed",
	"Health":                                       "Health",
	"MHPSS":                                        "MHPSS",
	"Nutrition":                                    "Nutrition",
	"WASH":                                         "WASH",
	"GBV":                                          "GBV",
	"Child_Protection":                             "Child Protection",
	"FSL":                                          "FSL",
}

// DetermineSector classifies a document by its placement in the tree.
// Path segments are checked against the sector table first; failing
// that, a keyword pass infers the sector from common terms. Documents
// matching nothing land in "Cross-Cutting".
func DetermineSector(relPath string) string {
	segments := strings.Split(relPath, "/")

	for _, seg := range segments {
		if sector, ok := sectorTable[seg]; ok {
			return sector
		}
	}

	for _, seg := range segments {
		lower := strings.ToLower(seg)
		switch {
		case strings.Contains(lower, "health") && !strings.Contains(lower, "mhpss"):
			return "Health"
		case strings.Contains(lower, "mhpss") || strings.Contains(lower, "mental"):
			return "MHPSS"
		case strings.Contains(lower, "nutrition"):
			return "Nutrition"
		case strings.Contains(lower, "wash"):
			return "WASH"
		case strings.Contains(lower, "gbv") || strings.Contains(lower, "gender"):
			return "GBV"
		case strings.Contains(lower, "protection"):
			return "Child Protection"
		case strings.Contains(lower, "fsl") || strings.Contains(lower, "food"):
			return "FSL"
		}
	}

	return "Cross-Cutting"
}

// docTypeKeywords are checked in priority order; first match wins.
var docTypeKeywords = []struct {
	keyword string
	docType string
}{
	{"standard", "standard"},
	{"assessment", "assessment_tool"},
	{"guideline", "guideline"},
	{"tool", "tool"},
	{"policy", "policy"},
	{"example", "example"},
}

// DetermineDocType classifies a document by keywords in its path or
// title. "guide" in the title also counts as a guideline. Unmatched
// documents are plain resources.
func DetermineDocType(relPath, title string) string {
	lowerPath := strings.ToLower(relPath)
	lowerTitle := strings.ToLower(title)

	for _, k := range docTypeKeywords {
		if strings.Contains(lowerPath, k.keyword) || strings.Contains(lowerTitle, k.keyword) {
			return k.docType
		}
		if k.docType == "guideline" && strings.Contains(lowerTitle, "guide") {
			return "guideline"
		}
	}
	return "resource"
}
