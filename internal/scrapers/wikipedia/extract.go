package wikipedia

import (
	"regexp"
	"strings"

	"leaders-scraper/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// NoContent is the excerpt of a page where the strategy found nothing.
const NoContent = "No meaningful content found"

// Strategy picks the lead text out of a document.
type Strategy interface {
	Select(doc *goquery.Document) (text string, ok bool)
}

// FirstBoldParagraph selects the first paragraph that contains bold text,
// wikipedia bolds the subject's name in the lead paragraph of an article.
type FirstBoldParagraph struct{}

func (FirstBoldParagraph) Select(doc *goquery.Document) (string, bool) {
	var text string
	found := false
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if p.Find("b").Length() == 0 {
			return true
		}
		for _, node := range p.Nodes {
			text += htmlutil.GetText(node)
		}
		text = strings.TrimSpace(text)
		found = true
		return false
	})
	return text, found && text != ""
}

var parenthesized = regexp.MustCompile(`\(.*?\)`)

// CleanParagraph removes parenthesized asides (pronunciations, dates) and
// collapses whitespace.
func CleanParagraph(paragraph string) string {
	cleaned := parenthesized.ReplaceAllString(paragraph, "")
	return htmlutil.CollapseWhitespace(cleaned)
}
