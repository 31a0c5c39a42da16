package page

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HeadingSelector matches the elements the problem site renders the
// problem name into.
const HeadingSelector = `h1, [data-cy="question-title"]`

// FromHTML builds a Context from a rendered HTML document.
func FromHTML(address string, r io.Reader) (Context, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Context{}, fmt.Errorf("failed to parse page: %w", err)
	}
	return FromDocument(address, doc), nil
}

// FromDocument builds a Context from an already parsed document.
func FromDocument(address string, doc *goquery.Document) Context {
	c := Context{Address: address}

	if heading := doc.Find(HeadingSelector).First(); heading.Length() > 0 {
		c = c.WithHeading(strings.TrimSpace(heading.Text()))
	}

	if title := doc.Find("title").First(); title.Length() > 0 {
		if text := strings.Join(strings.Fields(title.Text()), " "); text != "" {
			c = c.WithTitle(text)
		}
	}

	return c
}
