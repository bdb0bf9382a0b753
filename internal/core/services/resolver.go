package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/reliefkit/kbcat/internal/core/domain"
	"github.com/reliefkit/kbcat/internal/core/ports/driven"
	"github.com/reliefkit/kbcat/internal/logger"
)

// Resolver defaults.
const (
	// DefaultMaxRetries bounds attempts against the inference oracle.
	DefaultMaxRetries = 3

	// DefaultPromptExcerpt bounds the document text included in the
	// extraction prompt.
	DefaultPromptExcerpt = 2000
)

// DefaultExtractPrompt is the structured-extraction prompt used when no
// prompt store is configured. It requests exactly the nine metadata
// fields as a JSON object.
const DefaultExtractPrompt = `You are a librarian cataloging humanitarian documents. Analyze this document excerpt and extract metadata.

Document excerpt:
%s

Extract the following information and respond ONLY with valid JSON in this exact format. ALL fields are required:
{
    "title": "Complete document title from the text",
    "short_title": "Abbreviated version under 50 characters",
    "publisher": "Organization that published this (WHO, UNICEF, Sphere, etc.)",
    "year": "Publication year in YYYY format",
    "language": "Language code (EN/FR/ES/AR)",
    "country_scope": "Global, Regional, or specific country name",
    "summary": "One sentence describing the document's purpose",
    "indicators_covered": "Key standards, metrics or indicators mentioned",
    "evidence_level": "normative"
}

IMPORTANT: You must provide ALL 9 fields. If information is not clear, use these defaults:
- country_scope: Use "Global" if not specified
- evidence_level: Use "normative" for standards/frameworks
- indicators_covered: Mention key metrics, standards, or guidelines found

Look for:
- Title in headers/covers
- Publisher logos/names (WHO, UNICEF, Sphere Project, UNHCR, etc.)
- Copyright dates or the copyright symbol followed by a year
- Geographic focus mentioned in text
- Technical standards, indicators, or metrics described

Return only the JSON object, no other text.`

// fieldDefaults fills fields the oracle left missing or blank.
// Fields without a specific default become "Unknown".
var fieldDefaults = map[string]string{
	"evidence_level":     "normative",
	"country_scope":      "Global",
	"summary":            "Humanitarian standard or framework document",
	"indicators_covered": "Quality and accountability standards",
}

// requiredFields lists the nine metadata fields in schema order.
var requiredFields = []string{
	"title", "short_title", "publisher", "year", "language",
	"country_scope", "summary", "indicators_covered", "evidence_level",
}

// MetadataResolver resolves descriptive metadata for a document.
// The primary path prompts the inference oracle with bounded retries
// and defensively parses the structured response; any failure degrades
// to the deterministic heuristic fallback. Resolve never returns an
// error: every document ends with fully populated metadata.
type MetadataResolver struct {
	llm        driven.LLMService
	prompts    driven.PromptStore
	fallback   *FallbackResolver
	maxRetries int
	excerpt    int
}

// NewMetadataResolver creates a resolver. prompts may be nil, in which
// case the embedded default prompt is used. maxRetries and excerpt fall
// back to the package defaults when non-positive.
func NewMetadataResolver(llm driven.LLMService, prompts driven.PromptStore, maxRetries, excerpt int) *MetadataResolver {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	if excerpt <= 0 {
		excerpt = DefaultPromptExcerpt
	}
	return &MetadataResolver{
		llm:        llm,
		prompts:    prompts,
		fallback:   NewFallbackResolver(),
		maxRetries: maxRetries,
		excerpt:    excerpt,
	}
}

// Resolve produces metadata for the document at relPath from its
// extracted text. The boolean reports whether the primary (oracle)
// path succeeded; false means the heuristic fallback was used.
func (r *MetadataResolver) Resolve(ctx context.Context, text, relPath string) (domain.Metadata, bool) {
	if r.llm == nil || text == "" {
		return r.fallback.Resolve(relPath), false
	}

	response, err := r.query(ctx, text)
	if err != nil {
		logger.Warn("oracle failed for %s: %v", relPath, err)
		return r.fallback.Resolve(relPath), false
	}

	meta, err := parseMetadata(response)
	if err != nil {
		// Malformed structured output is not retried; the decode
		// parameters are deterministic so a second call would not help.
		logger.Warn("unparsable oracle response for %s: %v", relPath, err)
		return r.fallback.Resolve(relPath), false
	}

	return meta, true
}

// query invokes the oracle with bounded retries. Transport failures and
// non-success responses are retryable; the last error is returned once
// attempts are exhausted.
func (r *MetadataResolver) query(ctx context.Context, text string) (string, error) {
	if runes := []rune(text); len(runes) > r.excerpt {
		text = string(runes[:r.excerpt])
	}
	// Plain substitution, not Sprintf: the template is user-editable and
	// a stray % must not corrupt the prompt.
	prompt := strings.Replace(r.promptTemplate(), driven.PromptTextPlaceholder, text, 1)

	var lastErr error
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		response, err := r.llm.Generate(ctx, prompt, driven.GenerateOptions{
			Temperature: 0.1,
			TopP:        0.9,
		})
		if err == nil {
			return strings.TrimSpace(response), nil
		}
		lastErr = err
		logger.Debug("oracle attempt %d/%d failed: %v", attempt, r.maxRetries, err)
	}
	return "", fmt.Errorf("after %d attempts: %w", r.maxRetries, lastErr)
}

// promptTemplate loads the extraction prompt, falling back to the
// embedded default when no store is configured or loading fails.
func (r *MetadataResolver) promptTemplate() string {
	if r.prompts == nil {
		return DefaultExtractPrompt
	}
	prompt, err := r.prompts.Load(driven.PromptExtractMetadata)
	if err != nil {
		return DefaultExtractPrompt
	}
	return prompt
}

// parseMetadata turns a raw oracle response into validated metadata.
// It first attempts a strict parse of the whole response, then falls
// back to the substring between the first '{' and the last '}' since
// model output is often wrapped in prose. Missing or blank fields are
// filled with field-specific defaults; the short title is truncated to
// 50 characters and the year is coerced to a string.
func parseMetadata(response string) (domain.Metadata, error) {
	raw, err := decodeObject(response)
	if err != nil {
		return domain.Metadata{}, err
	}

	fields := make(map[string]string, len(requiredFields))
	for _, name := range requiredFields {
		value := stringify(raw[name])
		if value == "" {
			if def, ok := fieldDefaults[name]; ok {
				value = def
			} else {
				value = "Unknown"
			}
		}
		fields[name] = value
	}

	return domain.Metadata{
		Title:             fields["title"],
		ShortTitle:        truncateShortTitle(fields["short_title"]),
		Publisher:         fields["publisher"],
		Year:              fields["year"],
		Language:          fields["language"],
		CountryScope:      fields["country_scope"],
		Summary:           fields["summary"],
		IndicatorsCovered: fields["indicators_covered"],
		EvidenceLevel:     fields["evidence_level"],
	}, nil
}

// decodeObject extracts a JSON object from the response, tolerantly.
func decodeObject(response string) (map[string]any, error) {
	response = strings.TrimSpace(response)

	var raw map[string]any
	if err := json.Unmarshal([]byte(response), &raw); err == nil {
		return raw, nil
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}
	if err := json.Unmarshal([]byte(response[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("decode response object: %w", err)
	}
	return raw, nil
}

// stringify coerces a decoded JSON value to a trimmed string.
// Models occasionally emit the year as a number.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}
