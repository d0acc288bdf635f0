// Package fingerprint derives short structural hashes from HTML pages so that
// layout changes on the provider's site show up in the logs.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// Length is the number of hex characters kept from the SHA-256 digest.
const Length = 12

// Empty is the fingerprint of a page without any elements.
var Empty = Calculate("")

// Skeleton returns the sorted set of "tag.class" tokens found in the page.
// Text content and element counts are ignored, so two pages with a different
// number of outages but the same markup produce the same skeleton.
func Skeleton(page string) []string {
	seen := make(map[string]struct{})
	tokenizer := html.NewTokenizer(strings.NewReader(page))

	for {
		tt := tokenizer.Next()
		// io.EOF or a tokenizer failure both end the walk.
		if tt == html.ErrorToken {
			break
		}

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		tok := tokenizer.Token()
		seen[elementToken(tok)] = struct{}{}
	}

	tokens := make([]string, 0, len(seen))
	for tok := range seen {
		tokens = append(tokens, tok)
	}

	slices.Sort(tokens)

	return tokens
}

// Calculate computes the structural fingerprint of the page.
func Calculate(page string) string {
	data := strings.Join(Skeleton(page), "|")
	hash := sha256.Sum256([]byte(data))
	hashStr := hex.EncodeToString(hash[:])

	return hashStr[:Length]
}

func elementToken(tok html.Token) string {
	var classes []string

	for _, attr := range tok.Attr {
		if attr.Key == "class" {
			classes = strings.Fields(attr.Val)
		}
	}

	if len(classes) == 0 {
		return tok.Data
	}

	slices.Sort(classes)

	return tok.Data + "." + strings.Join(classes, ".")
}
