// Package parsers extracts planned outage announcements from HEP ODS pages.
//
// All knowledge of the provider's markup lives here: the container
// selectors, the Croatian field labels and the line layout. When the site
// changes, this package and its testdata are the only things to update.
package parsers

import (
	"strings"

	"hepoutage/internal/models"
	"hepoutage/internal/normalizer"
	"hepoutage/pkg/fingerprint"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Field labels as published by the provider.
const (
	LabelLocation = "Mjesto:"
	LabelStreet   = "Ulica:"
	LabelTime     = "Očekivano trajanje:"
	LabelNote     = "Napomena:"
)

type field int

const (
	fieldNone field = iota
	fieldLocation
	fieldStreet
	fieldTime
	fieldNote
)

// labels is checked in order; every outage block starts with LabelLocation.
var labels = []struct {
	text  string
	field field
}{
	{LabelLocation, fieldLocation},
	{LabelStreet, fieldStreet},
	{LabelTime, fieldTime},
	{LabelNote, fieldNote},
}

// rootSelectors lists candidate listing containers, most specific first. The
// first one matching any element that carries a location label is used.
var rootSelectors = []string{
	"#bez-struje",
	".bez-struje",
	"div.radovi",
	"main .content",
	"main",
	"#content",
	".content",
	"article",
	"body",
}

// blockElements end the current text line when opened or closed.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"footer": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "section": true,
	"table": true, "tbody": true, "td": true, "th": true, "thead": true,
	"tr": true, "ul": true,
}

// skippedElements never contribute text.
var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
}

// Stats describes what the parser saw on a page. A page can yield no outages
// either because none are published or because the layout changed; the stats
// let an operator tell the two apart after the fact.
type Stats struct {
	Fingerprint string
	Bytes       int
	Labels      int
	Entries     int
	Dropped     int
	RootFound   bool
}

// Parser handles HTML parsing and outage extraction.
type Parser struct {
	processor *normalizer.Processor
}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{
		processor: normalizer.NewProcessor(),
	}
}

// Parse extracts the outages published on one day's page. It never fails:
// markup it cannot read yields an empty slice.
func (p *Parser) Parse(page string) []models.Outage {
	outages, _ := p.ParseWithStats(page)

	return outages
}

// ParseWithStats is Parse plus diagnostics about the page structure.
func (p *Parser) ParseWithStats(page string) ([]models.Outage, Stats) {
	stats := Stats{
		Bytes:       len(page),
		Fingerprint: fingerprint.Calculate(page),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return []models.Outage{}, stats
	}

	root := findRoot(doc)
	if root == nil {
		return []models.Outage{}, stats
	}

	stats.RootFound = true

	dateLabel := root.Find("h3").First().Text()
	if strings.TrimSpace(dateLabel) == "" {
		dateLabel = doc.Find("h3").First().Text()
	}

	entries, labelCount := collectEntries(textLines(root))
	stats.Labels = labelCount
	stats.Entries = len(entries)

	outages, dropped := p.processor.Process(dateLabel, entries)
	stats.Dropped = dropped

	return outages, stats
}

// findRoot returns every container matched by the first selector that holds
// a location label, in document order. Containers nested inside another
// match are dropped so no line is read twice.
func findRoot(doc *goquery.Document) *goquery.Selection {
	for _, selector := range rootSelectors {
		matches := doc.Find(selector).FilterFunction(func(_ int, sel *goquery.Selection) bool {
			return strings.Contains(sel.Text(), LabelLocation)
		})

		if matches.Length() == 0 {
			continue
		}

		kept := make(map[*html.Node]bool, matches.Length())
		nodes := make([]*html.Node, 0, matches.Length())

		for _, n := range matches.Nodes {
			if hasAncestor(n, kept) {
				continue
			}

			kept[n] = true
			nodes = append(nodes, n)
		}

		return matches.FilterNodes(nodes...)
	}

	return nil
}

func hasAncestor(n *html.Node, set map[*html.Node]bool) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if set[p] {
			return true
		}
	}

	return false
}

// textLines flattens the selection into visual lines of text.
func textLines(sel *goquery.Selection) []string {
	var (
		lines   []string
		current strings.Builder
	)

	flush := func() {
		line := strings.TrimSpace(current.String())
		if line != "" {
			lines = append(lines, line)
		}

		current.Reset()
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			current.WriteString(n.Data)

			return
		case html.ElementNode:
			if skippedElements[n.Data] {
				return
			}
		case html.CommentNode, html.DoctypeNode:
			return
		}

		block := n.Type == html.ElementNode && blockElements[n.Data]
		if block {
			flush()
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}

		if block {
			flush()
		}
	}

	for _, n := range sel.Nodes {
		walk(n)
		flush()
	}

	flush()

	return lines
}

// collectEntries runs the label state machine over the page lines. A label
// without an inline value takes its value from the next plain line.
func collectEntries(lines []string) ([]normalizer.Entry, int) {
	var (
		entries    []normalizer.Entry
		current    *normalizer.Entry
		pending    = fieldNone
		labelCount int
	)

	for _, line := range lines {
		f, value, isLabel := matchLabel(line)

		if isLabel {
			labelCount++
			pending = fieldNone

			if f == fieldLocation {
				if current != nil {
					entries = append(entries, *current)
				}

				current = &normalizer.Entry{}
			}

			// Fields before the first location label belong to no outage.
			if current == nil {
				continue
			}

			if value == "" {
				pending = f

				continue
			}

			assign(current, f, value)

			continue
		}

		if current == nil || pending == fieldNone {
			continue
		}

		// Time ranges look like "09:00 - 11:30"; anything else is not ours.
		if pending == fieldTime && !strings.Contains(line, "-") {
			continue
		}

		assign(current, pending, line)
		pending = fieldNone
	}

	if current != nil {
		entries = append(entries, *current)
	}

	return entries, labelCount
}

func matchLabel(line string) (field, string, bool) {
	for _, l := range labels {
		if rest, ok := strings.CutPrefix(line, l.text); ok {
			return l.field, strings.TrimSpace(rest), true
		}
	}

	return fieldNone, "", false
}

func assign(entry *normalizer.Entry, f field, value string) {
	switch f {
	case fieldLocation:
		entry.Location = value
	case fieldStreet:
		entry.Street = value
	case fieldTime:
		entry.TimeRange = value
	case fieldNote:
		entry.Note = value
	case fieldNone:
	}
}
