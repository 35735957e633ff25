package sections

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Devansh3212/mined-hackathon-2025/llm"
)

// Category is one of the four fixed structured-summary sections.
type Category string

const (
	KeyFindings  Category = "Key Findings"
	Methodology  Category = "Methodology"
	Conclusions  Category = "Conclusions"
	Implications Category = "Implications"
)

// CategoryOrder returns the fixed order categories are rendered in.
func CategoryOrder() []Category {
	return []Category{KeyFindings, Methodology, Conclusions, Implications}
}

// SectionMap maps each category to its bullet points. Extract guarantees
// every category is present with at least one bullet.
type SectionMap map[Category][]string

// FailureBullet is substituted when generation fails for a category even
// after the per-category retry, so no category is ever left empty.
const FailureBullet = "Content generation failed for this section."

const (
	structuredMaxTokens = 1000
	fallbackMaxTokens   = 300
)

// headerMarkers are the literal section headers the structured prompt asks
// the model to emit. Matching is case-insensitive on the trimmed line.
var headerMarkers = map[string]Category{
	"KEY FINDINGS:": KeyFindings,
	"METHODOLOGY:":  Methodology,
	"CONCLUSIONS:":  Conclusions,
	"IMPLICATIONS:": Implications,
}

// Extract reorganizes a narrative summary into the four fixed categories of
// bullet points. It issues one structured generation request, parses the
// response, and retries per category when a category came back empty.
// Generation failures never propagate: the worst case is FailureBullet
// content for the affected categories.
func Extract(ctx context.Context, summary string, gen llm.Generator) SectionMap {
	result := make(SectionMap, 4)
	for _, cat := range CategoryOrder() {
		result[cat] = []string{}
	}

	resp, err := gen.Generate(ctx, structuredPrompt(summary), structuredMaxTokens)
	if err != nil {
		log.Printf("Structured summary generation failed, regenerating per section: %v", err)
	} else {
		parseStructured(resp, result)
	}

	for _, cat := range CategoryOrder() {
		if len(result[cat]) > 0 {
			continue
		}

		bullets, err := regenerateCategory(ctx, cat, summary, gen)
		if err != nil {
			log.Printf("Fallback generation failed for %s: %v", cat, err)
		}
		if len(bullets) == 0 {
			bullets = []string{FailureBullet}
		}
		result[cat] = bullets
	}

	return result
}

func structuredPrompt(summary string) string {
	return fmt.Sprintf(`Reorganize the following research paper summary into four sections.
Use exactly these section headers, each on its own line:

KEY FINDINGS:
METHODOLOGY:
CONCLUSIONS:
IMPLICATIONS:

Under each header write 2-4 concise points, one per line, starting with "- ".

Summary:
%s`, summary)
}

// parseStructured scans the response line by line, keeping a current-category
// cursor. Header lines move the cursor; bullet lines under an active cursor
// are stripped and appended; everything else is dropped. Non-bullet text
// under a header is not treated as continuation of the previous bullet.
func parseStructured(text string, result SectionMap) {
	var current Category
	haveCursor := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if cat, ok := matchHeader(trimmed); ok {
			current = cat
			haveCursor = true
			continue
		}

		if !haveCursor {
			continue
		}

		if !strings.HasPrefix(trimmed, "-") && !strings.HasPrefix(trimmed, "•") {
			continue
		}

		if body := stripBullet(trimmed); body != "" {
			result[current] = append(result[current], body)
		}
	}
}

func matchHeader(line string) (Category, bool) {
	upper := strings.ToUpper(line)
	for marker, cat := range headerMarkers {
		if strings.HasPrefix(upper, marker) {
			return cat, true
		}
	}
	return "", false
}

func stripBullet(line string) string {
	line = strings.TrimPrefix(line, "-")
	line = strings.TrimPrefix(line, "•")
	return strings.TrimSpace(line)
}

// regenerateCategory asks for points for a single category directly from the
// original summary. Lines that are empty after stripping, or that look like
// stray headers (trailing colon), are discarded.
func regenerateCategory(ctx context.Context, cat Category, summary string, gen llm.Generator) ([]string, error) {
	prompt := fmt.Sprintf(`Give 2-3 concise bullet points for the "%s" section of this research paper summary.
Write one point per line, starting with "- ". Do not include any headers.

Summary:
%s`, cat, summary)

	resp, err := gen.Generate(ctx, prompt, fallbackMaxTokens)
	if err != nil {
		return nil, err
	}

	var bullets []string
	for _, line := range strings.Split(resp, "\n") {
		body := stripBullet(strings.TrimSpace(line))
		if body == "" || strings.HasSuffix(body, ":") {
			continue
		}
		bullets = append(bullets, body)
	}
	return bullets, nil
}
