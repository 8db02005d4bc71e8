// Package locations extracts source and destination records from a location
// document. Parsing is a pure function of the input text: no I/O, no caching.
package locations

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/pkordes/routing-dashboard/internal/domain"
)

// unknownRegion is used when an element carries no region child or attribute.
const unknownRegion = "Unknown"

// role describes one of the two lists extracted from a document.
type role struct {
	element  string // element name matched anywhere in the document
	idPrefix string // "source" → "source-0"
	label    string // "Source" → "Source 1"
}

var (
	sourceRole      = role{element: "source", idPrefix: "source", label: "Source"}
	destinationRole = role{element: "destination", idPrefix: "destination", label: "Destination"}
)

// Parse converts a location document into ordered source and destination lists.
//
// Every <source> and <destination> element is matched wherever it appears,
// in document order. For each, name and region come from the first
// descendant element of that name, else the attribute of that name, else a
// placeholder ("Source 3", "Unknown"). Values are trimmed; a value that is
// blank after trimming counts as absent.
//
// Returns domain.ErrParse if the document is not well-formed. No partial
// result is returned in that case.
func Parse(document string) (domain.Locations, error) {
	root, err := buildTree(document)
	if err != nil {
		return domain.Locations{}, fmt.Errorf("%w: XML parsing failed: %v", domain.ErrParse, err)
	}

	return domain.Locations{
		Sources:      extract(root, sourceRole),
		Destinations: extract(root, destinationRole),
	}, nil
}

// extract builds one LocationItem per element matching r.element.
// The result is never nil so it encodes as [] rather than null.
func extract(root *node, r role) []domain.LocationItem {
	matches := root.findAll(r.element)
	items := make([]domain.LocationItem, 0, len(matches))
	for i, el := range matches {
		items = append(items, domain.LocationItem{
			ID:     fmt.Sprintf("%s-%d", r.idPrefix, i),
			Name:   field(el, "name", fmt.Sprintf("%s %d", r.label, i+1)),
			Region: field(el, "region", unknownRegion),
		})
	}
	return items
}

// field resolves one value through the child → attribute → placeholder chain.
func field(el *node, key, placeholder string) string {
	if child := el.findFirst(key); child != nil {
		if v := strings.TrimSpace(child.textContent()); v != "" {
			return v
		}
	}
	if v, ok := el.attr(key); ok {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return placeholder
}

// node is a minimal element tree. Text nodes have an empty name and carry
// their content in text; element nodes carry children in document order.
type node struct {
	name     string
	attrs    []xml.Attr
	children []*node
	text     string
}

func (n *node) isText() bool { return n.name == "" }

// findAll returns every descendant element (including n itself) named name,
// in document order.
func (n *node) findAll(name string) []*node {
	var out []*node
	var walk func(*node)
	walk = func(cur *node) {
		if cur.isText() {
			return
		}
		if cur.name == name {
			out = append(out, cur)
		}
		for _, c := range cur.children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// findFirst returns the first descendant element (excluding n) named name.
func (n *node) findFirst(name string) *node {
	for _, c := range n.children {
		if c.isText() {
			continue
		}
		if c.name == name {
			return c
		}
		if found := c.findFirst(name); found != nil {
			return found
		}
	}
	return nil
}

// textContent concatenates all descendant text in document order.
func (n *node) textContent() string {
	if n.isText() {
		return n.text
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.textContent())
	}
	return b.String()
}

// attr returns the value of the un-namespaced attribute key.
func (n *node) attr(key string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name.Space == "" && a.Name.Local == key {
			return a.Value, true
		}
	}
	return "", false
}

// buildTree decodes document into an element tree rooted at the single
// document element. The decoder runs in strict mode, so mismatched or
// unclosed tags and unknown entities are reported as syntax errors.
func buildTree(document string) (*node, error) {
	dec := xml.NewDecoder(strings.NewReader(document))
	dec.CharsetReader = charsetReader

	var (
		root  *node
		stack []*node
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &node{name: t.Name.Local, attrs: t.Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("line %d: extra content after document element", lineOf(dec))
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return nil, fmt.Errorf("line %d: text outside document element", lineOf(dec))
				}
				continue
			}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, &node{text: string(t)})
		}
	}

	if root == nil {
		return nil, errors.New("no document element")
	}
	return root, nil
}

// charsetReader transcodes documents that declare a non-UTF-8 encoding,
// e.g. <?xml version="1.0" encoding="ISO-8859-1"?>.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

func lineOf(dec *xml.Decoder) int {
	line, _ := dec.InputPos()
	return line
}
