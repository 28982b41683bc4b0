package dom

import (
	"fmt"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// FindAll evaluates the XPath expression expr under root.
func FindAll(root *html.Node, expr string) ([]*html.Node, error) {
	nodes, err := htmlquery.QueryAll(root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath %q: %w", expr, err)
	}
	return nodes, nil
}

// FindOne returns the first match of expr under root, or nil.
func FindOne(root *html.Node, expr string) (*html.Node, error) {
	n, err := htmlquery.Query(root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath %q: %w", expr, err)
	}
	return n, nil
}

// ByAttr returns the elements under root carrying attribute key, in document
// order.
func ByAttr(root *html.Node, key string) []*html.Node {
	nodes, err := FindAll(root, fmt.Sprintf("descendant-or-self::*[@%s]", key))
	if err != nil {
		return nil
	}
	return nodes
}
