// Package link finds the download link Semaphore adds to a thread output when
// the inline log was truncated and the full log was offloaded.
package link

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// InfoSelector matches the callout element that carries the download link.
const InfoSelector = ".text-info"

// Extractor finds the URL of the full log in a thread output.
type Extractor interface {
	ExtractDownloadLink(html string) (string, bool)
}

// HTMLExtractor looks for the first anchor inside an element styled with
// the info class.
type HTMLExtractor struct {
	Selector string
}

// NewHTMLExtractor returns an extractor for the default info callout.
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{Selector: InfoSelector}
}

// ExtractDownloadLink returns the href of the first link inside the info
// callout. Outputs without a callout, or whose anchor has no href, return false.
func (e *HTMLExtractor) ExtractDownloadLink(html string) (string, bool) {
	// plain console output never has the callout, skip the parser.
	if !strings.Contains(html, "<") {
		return "", false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Debugf("unable to parse thread output as HTML: %v", err)
		return "", false
	}
	selector := e.Selector
	if selector == "" {
		selector = InfoSelector
	}
	href, ok := doc.Find(selector).Find("a").First().Attr("href")
	if !ok {
		return "", false
	}
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	return href, true
}
