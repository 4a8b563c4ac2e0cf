package homepage

import (
	"regexp"
	"strings"
)

// FallbackSection is assigned when no taxonomy phrase matches
const FallbackSection = "Other Products"

// ProductText carries the free-text fields the classifier scores against
type ProductText struct {
	Category         string
	MainCategory     string
	Title            string
	Brand            string
	ShortDescription string
}

type compiledPhrase struct {
	re     *regexp.Regexp
	weight int
}

type compiledEntry struct {
	section string
	phrases []compiledPhrase
}

// Classifier assigns products to taxonomy sections by keyword scoring.
// All phrase patterns are compiled once at construction; Classify is
// safe for concurrent use.
type Classifier struct {
	entries []compiledEntry
}

// NewClassifier compiles the given taxonomy into a classifier
func NewClassifier(taxonomy []TaxonomyEntry) *Classifier {
	entries := make([]compiledEntry, 0, len(taxonomy))
	for _, te := range taxonomy {
		phrases := make([]compiledPhrase, 0, len(te.Phrases))
		for _, phrase := range te.Phrases {
			phrases = append(phrases, compiledPhrase{
				re:     regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(phrase)) + `\b`),
				weight: len(strings.Fields(phrase)),
			})
		}
		entries = append(entries, compiledEntry{section: te.Section, phrases: phrases})
	}
	return &Classifier{entries: entries}
}

var nonWord = regexp.MustCompile(`[^\w\s]`)

// Normalize builds the lowercase search text: fields joined by single
// spaces with punctuation replaced by spaces.
func Normalize(text ProductText) string {
	parts := make([]string, 0, 5)
	for _, s := range []string{
		text.Category,
		text.MainCategory,
		text.Title,
		text.Brand,
		text.ShortDescription,
	} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	haystack := strings.ToLower(strings.Join(parts, " "))
	return nonWord.ReplaceAllString(haystack, " ")
}

// Classify returns the best-scoring section name, or FallbackSection when
// nothing matches. Each matched phrase adds its word count to the entry
// score; only a strictly greater score displaces the current best, so the
// earliest entry wins ties.
func (c *Classifier) Classify(text ProductText) string {
	haystack := Normalize(text)

	best := ""
	topScore := 0
	for _, entry := range c.entries {
		score := 0
		for _, p := range entry.phrases {
			if p.re.MatchString(haystack) {
				score += p.weight
			}
		}
		if score > topScore {
			topScore = score
			best = entry.section
		}
	}

	if topScore == 0 {
		return FallbackSection
	}
	return best
}
