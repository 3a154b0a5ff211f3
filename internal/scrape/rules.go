package scrape

import (
	"regexp"
	"strings"

	"github.com/desertthunder/jazzx/internal/models"
	"github.com/desertthunder/jazzx/internal/shared"
)

// artistShape matches a capitalized two-or-three-word human name. Kept
// deliberately narrow; see the package doc for the tradeoff.
const artistShape = `([A-Z][a-z]+ [A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`

// Rule is one named citation pattern applied to a page's flattened text.
//
// Rules are evaluated independently and in order; the same text span may
// match more than one rule and surface twice before deduplication.
type Rule struct {
	Name string
	re   *regexp.Regexp
}

// DefaultRules returns the ordered citation pattern set.
func DefaultRules() []Rule {
	return []Rule{
		{
			// "Miles Davis (1959" — artist followed by a recording year
			Name: "artist-year",
			re:   regexp.MustCompile(artistShape + `\s*\((\d{4})`),
		},
		{
			// "Bill Evans - Portrait in Jazz" — artist, separator, free text
			Name: "artist-dash-info",
			re:   regexp.MustCompile(artistShape + `\s*[-–]\s*([^(]+)`),
		},
		{
			// "Benny Goodman and His Orchestra" — big band credit
			Name: "orchestra",
			re:   regexp.MustCompile(artistShape + `\s+and\s+His\s+Orchestra`),
		},
	}
}

// Apply runs the rule over text and returns one citation per match.
//
// The first capture group is the artist, the second (if present) the info
// tail. Display text joins the captured groups with " - ".
func (r Rule) Apply(text string) []models.Citation {
	var citations []models.Citation

	for _, match := range r.re.FindAllStringSubmatch(text, -1) {
		groups := match[1:]
		if len(groups) == 0 {
			continue
		}

		artist := strings.TrimSpace(groups[0])
		if artist == "" {
			continue
		}

		info := ""
		if len(groups) > 1 {
			info = strings.TrimSpace(groups[1])
		}

		display := artist
		if info != "" {
			display = artist + " - " + info
		}

		citations = append(citations, models.Citation{
			Artist:      artist,
			Info:        info,
			DisplayText: display,
		})
	}

	return citations
}

// Dedupe removes citations sharing a case-insensitive artist, keeping the
// first occurrence, then truncates the result to max entries.
func Dedupe(citations []models.Citation, max int) []models.Citation {
	seen := make(map[string]struct{}, len(citations))
	unique := make([]models.Citation, 0, len(citations))

	for _, c := range citations {
		key := shared.NormalizeArtistKey(c.Artist)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, c)
	}

	if max > 0 && len(unique) > max {
		unique = unique[:max]
	}

	return unique
}
