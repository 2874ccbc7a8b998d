package feed

import (
	"encoding/xml"
	"strings"

	"techvibe/internal/domain"
)

const defaultMaxItems = 5

// Parser extracts articles from RSS/XML documents. Extraction is tolerant:
// a broken entry is skipped, a broken document yields an empty slice, never
// an error.
type Parser struct {
	maxItems int
}

// NewParser builds a parser capped at 5 accepted entries per feed.
func NewParser() *Parser {
	return &Parser{maxItems: defaultMaxItems}
}

// Parse walks the document and returns accepted articles in document order.
// An entry needs both title and link; description and pubDate default to "".
func (p *Parser) Parse(body string) []domain.Article {
	dec := xml.NewDecoder(strings.NewReader(body))
	dec.Strict = false

	articles := make([]domain.Article, 0, p.maxItems)
	for len(articles) < p.maxItems {
		tok, err := dec.Token()
		if err != nil {
			break
		}

		start, ok := tok.(xml.StartElement)
		if !ok || !strings.EqualFold(start.Name.Local, "item") {
			continue
		}

		if article, ok := p.parseItem(dec); ok {
			articles = append(articles, article)
		}
	}

	return articles
}

// parseItem consumes tokens up to the closing </item>. Fields are
// first-match-wins; repeated elements are ignored.
func (p *Parser) parseItem(dec *xml.Decoder) (domain.Article, bool) {
	var article domain.Article

	for {
		tok, err := dec.Token()
		if err != nil {
			return domain.Article{}, false
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch strings.ToLower(t.Name.Local) {
			case "title":
				setOnce(&article.Title, elementText(dec))
			case "link":
				setOnce(&article.Link, elementText(dec))
			case "description":
				setOnce(&article.Description, elementText(dec))
			case "pubdate":
				setOnce(&article.PublishedAt, elementText(dec))
			default:
				if dec.Skip() != nil {
					return domain.Article{}, false
				}
			}
		case xml.EndElement:
			if strings.EqualFold(t.Name.Local, "item") {
				if article.Title == "" || article.Link == "" {
					return domain.Article{}, false
				}
				return article, true
			}
		}
	}
}

// elementText collects character data (inline text and CDATA both decode to
// chardata) until the element closes.
func elementText(dec *xml.Decoder) string {
	var sb strings.Builder
	depth := 1

	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.CharData:
			if depth == 1 {
				sb.Write(t)
			}
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}

	return strings.TrimSpace(sb.String())
}

func setOnce(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
