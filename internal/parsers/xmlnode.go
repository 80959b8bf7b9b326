package parsers

import (
	"encoding/xml"
	"io"
	"strings"
)

// xmlNode is a minimal document tree for the XML report formats. Scanner XML
// arrives with unpredictable namespaces and nesting, so adapters search by
// local element name anywhere below a node rather than by rigid struct paths.
type xmlNode struct {
	name     string
	attrs    map[string]string
	text     string
	children []*xmlNode
}

// parseXML builds the element tree for content, or returns nil when the
// document is not well formed.
func parseXML(content string) *xmlNode {
	dec := xml.NewDecoder(strings.NewReader(content))
	dec.Strict = false
	// Scanner exports show up in legacy encodings often enough.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	root := &xmlNode{}
	stack := []*xmlNode{root}

	for {
		tok, err := dec.Token()
		if err != nil {
			if len(root.children) == 1 && stack[len(stack)-1] == root {
				// Fully closed document followed by trailing garbage.
				return root.children[0]
			}
			return nil
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := &xmlNode{name: t.Name.Local, attrs: map[string]string{}}
			for _, a := range t.Attr {
				node.attrs[a.Name.Local] = a.Value
			}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, node)
			stack = append(stack, node)
		case xml.CharData:
			stack[len(stack)-1].text += string(t)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		}
	}
}

// findAll returns every descendant element with the given local name.
func (n *xmlNode) findAll(name string) []*xmlNode {
	if n == nil {
		return nil
	}
	var out []*xmlNode
	for _, c := range n.children {
		if c.name == name {
			out = append(out, c)
		}
		out = append(out, c.findAll(name)...)
	}
	return out
}

// find returns the first descendant element with the given local name.
func (n *xmlNode) find(name string) *xmlNode {
	if n == nil {
		return nil
	}
	for _, c := range n.children {
		if c.name == name {
			return c
		}
		if m := c.find(name); m != nil {
			return m
		}
	}
	return nil
}

// findText returns the trimmed text of the first descendant with the given
// name, or def when absent.
func (n *xmlNode) findText(name, def string) string {
	if m := n.find(name); m != nil {
		if s := strings.TrimSpace(m.text); s != "" {
			return s
		}
	}
	return def
}

// attr returns the named attribute, or "".
func (n *xmlNode) attr(name string) string {
	if n == nil {
		return ""
	}
	return n.attrs[name]
}

// trimmedText returns the element's own text content, trimmed.
func (n *xmlNode) trimmedText() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.text)
}
