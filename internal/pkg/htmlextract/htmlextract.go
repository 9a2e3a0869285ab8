// Package htmlextract pulls readable text out of documentation pages: the
// first h1 as the title and the concatenated paragraph text as the body.
package htmlextract

import (
	"strings"

	"golang.org/x/net/html"
)

type Page struct {
	Title string
	Text  string
}

// Extract parses markup and collects the title and paragraph text with
// normalized whitespace. Pages without any <p> elements fall back to the
// whole body text.
func Extract(markup string) (*Page, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	page := &Page{Title: "Untitled"}
	var paragraphs []string
	var body *html.Node

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h1":
				if page.Title == "Untitled" {
					if t := normalize(textContent(n)); t != "" {
						page.Title = t
					}
				}
			case "p":
				if t := normalize(textContent(n)); t != "" {
					paragraphs = append(paragraphs, t)
				}
			case "body":
				body = n
			case "script", "style":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if len(paragraphs) > 0 {
		page.Text = strings.Join(paragraphs, " ")
	} else if body != nil {
		page.Text = normalize(textContent(body))
	}
	return page, nil
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return ""
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
		b.WriteString(" ")
	}
	return b.String()
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
