package county

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SanFranciscoURL is the SF Department of Public Health coronavirus alert page
const SanFranciscoURL = "https://www.sfdph.org/dph/alerts/coronavirus.asp"

var (
	sfCasesPattern  = regexp.MustCompile(`Total Positive Cases: ([\d,]+)`)
	sfDeathsPattern = regexp.MustCompile(`Deaths: ([\d,]+)`)
	sfTimePattern   = regexp.MustCompile(`updated daily at (\d{1,2}:\d{1,2} (?:AM|PM))`)
)

// SanFrancisco extracts totals from the SFDPH alert page.
// The figures live in paragraphs inside the "helpful-links" box; when the box is
// missing the whole document is searched instead.
type SanFrancisco struct{}

// Extract implements Extractor
func (SanFrancisco) Extract(doc *goquery.Document) (Fields, error) {
	scope := doc.Find("#helpful-links")
	if scope.Length() == 0 {
		scope = doc.Selection
	}

	cases, err := findCount(scope, sfCasesPattern, "total positive cases")
	if err != nil {
		return Fields{}, err
	}

	deaths, err := findCount(scope, sfDeathsPattern, "deaths")
	if err != nil {
		return Fields{}, err
	}

	updated, ok := findParagraph(scope, sfTimePattern)
	if !ok {
		return Fields{}, fmt.Errorf("%w: update time not found", ErrExtraction)
	}

	return Fields{
		TotalCases:  cases,
		TotalDeaths: deaths,
		TimeUpdated: updated,
	}, nil
}

// findParagraph returns the first capture group of pattern in the first matching <p>
func findParagraph(scope *goquery.Selection, pattern *regexp.Regexp) (string, bool) {
	var match string
	found := false

	scope.Find("p").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if m := pattern.FindStringSubmatch(strings.TrimSpace(sel.Text())); m != nil {
			match = m[1]
			found = true
			return false
		}
		return true
	})

	return match, found
}

// findCount locates a labelled count and parses it, dropping thousands separators
func findCount(scope *goquery.Selection, pattern *regexp.Regexp, label string) (int, error) {
	raw, ok := findParagraph(scope, pattern)
	if !ok {
		return 0, fmt.Errorf("%w: %s not found", ErrExtraction, label)
	}
	return parseCount(raw, label)
}

func parseCount(raw, label string) (int, error) {
	n, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("%w: parsing %s %q: %v", ErrExtraction, label, raw, err)
	}
	return n, nil
}
