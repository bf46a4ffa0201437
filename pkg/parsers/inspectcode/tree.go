package inspectcode

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is one element of the parsed report tree. Attributes carry the data in
// InspectCode reports; child elements provide structure (projects nesting
// issues). Nodes are immutable once the tree is built and own their children;
// the parent reference exists for ancestor lookups only.
type Node struct {
	// Tag is the element name, e.g. "Issue" or "Project".
	Tag string

	// Attrs maps attribute names to their values. Keys are unique per node.
	Attrs map[string]string

	// Children holds the child elements in document order.
	Children []*Node

	parent *Node
	text   strings.Builder
}

// Attr returns the value of the named attribute, or "" if absent.
func (n *Node) Attr(name string) string {
	return n.Attrs[name]
}

// Parent returns the enclosing element, or nil for the document root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Text returns the trimmed character data directly inside this element.
func (n *Node) Text() string {
	return strings.TrimSpace(n.text.String())
}

// FindAncestor walks up the parent chain and returns the nearest ancestor
// with the given tag, or nil if none exists.
func (n *Node) FindAncestor(tag string) *Node {
	for p := n.parent; p != nil; p = p.parent {
		if p.Tag == tag {
			return p
		}
	}
	return nil
}

// Descendants returns every descendant element with the given tag, in
// document order. The receiver itself is not included.
func (n *Node) Descendants(tag string) []*Node {
	var found []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, child := range cur.Children {
			if child.Tag == tag {
				found = append(found, child)
			}
			walk(child)
		}
	}
	walk(n)
	return found
}

// decodeTree parses XML from r into a Node tree. Any token-level error makes
// the whole document unusable.
func decodeTree(dec *xml.Decoder) (*Node, error) {
	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{
				Tag:   t.Name.Local,
				Attrs: make(map[string]string, len(t.Attr)),
			}
			for _, attr := range t.Attr {
				node.Attrs[attr.Name.Local] = attr.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple document elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				node.parent = parent
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("document contains no elements")
	}
	return root, nil
}
