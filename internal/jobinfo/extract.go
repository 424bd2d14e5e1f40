package jobinfo

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/autoapply/internal/sites"
)

// Extract reads a job title and description block from a rendered page using a
// prioritized list of structural locators. Finding nothing is not an error;
// the returned context simply has empty fields and the caller falls back to a
// default category.
func Extract(html string, pageURL string) (*JobContext, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}

	platform := sites.DetectPlatform(pageURL)

	jc := &JobContext{
		CompanyName: ExtractCompanyFromURL(pageURL),
	}
	jc.Title = extractTitle(doc, platform)
	jc.DescriptionSnippet = extractDescription(doc, platform)
	return jc, nil
}

// extractTitle tries platform-specific selectors first, then generic ones.
func extractTitle(doc *goquery.Document, platform sites.Platform) string {
	for _, selector := range sites.TitleSelectors(platform) {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if title := strings.TrimSpace(sel.Text()); title != "" {
			return title
		}
	}
	return ""
}

// extractDescription walks the description locator list and returns the first
// block long enough to be a real description. When nothing matches it falls
// back to leading body text, bounded in length.
func extractDescription(doc *goquery.Document, platform sites.Platform) string {
	for _, selector := range sites.DescriptionSelectors(platform) {
		var found string
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := strings.TrimSpace(sel.Text())
			if len(text) >= minDescriptionLength {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return truncate(found, MaxDescriptionLength)
		}
	}

	body := strings.TrimSpace(doc.Find("body").Text())
	if len(body) >= minDescriptionLength*2 {
		return truncate(body, MaxDescriptionLength*3/4)
	}
	return ""
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
