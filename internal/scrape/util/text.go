package util

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"impactjobs-engine/internal/domain"
)

// DescriptionText renders a description that may carry HTML into the
// requested format. Markdown keeps paragraphs, headings and list items.
func DescriptionText(raw string, format domain.DescriptionFormat) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.Contains(raw, "<") {
		return raw
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return CleanText(raw)
	}
	doc.Find("script,style,noscript").Remove()

	if format != domain.FormatMarkdown {
		return CleanText(doc.Text())
	}

	var b strings.Builder
	for _, n := range doc.Find("body").Nodes {
		renderMarkdown(&b, n)
	}
	lines := strings.Split(b.String(), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, l := range lines {
		l = CleanText(l)
		if strings.TrimSpace(l) == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func renderMarkdown(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(strings.ReplaceAll(n.Data, "\n", " "))
		return
	case html.ElementNode:
		switch n.Data {
		case "br":
			b.WriteString("\n")
			return
		case "li":
			b.WriteString("\n- ")
		case "h1", "h2", "h3", "h4", "h5", "h6":
			b.WriteString("\n\n" + strings.Repeat("#", int(n.Data[1]-'0')) + " ")
		case "strong", "b":
			b.WriteString("**")
		case "p", "div", "ul", "ol", "section", "table", "tr":
			b.WriteString("\n\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderMarkdown(b, c)
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "strong", "b":
			b.WriteString("**")
		case "p", "div", "ul", "ol", "section", "table", "h1", "h2", "h3", "h4", "h5", "h6":
			b.WriteString("\n\n")
		}
	}
}
