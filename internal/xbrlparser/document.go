package xbrlparser

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"mcafin/xbrl-xlsx/internal/parsererror"
)

// element is a node of the loaded instance document. The loader keeps the
// whole document in memory; streaming parses of oversized filings are out
// of scope and payload size is bounded by the caller.
type element struct {
	space    string
	local    string
	attrs    []xml.Attr
	text     string
	children []*element
}

// loadDocument parses raw bytes into an element tree. Malformed markup is
// fatal and reported as an *parsererror.InvalidFormatError.
func loadDocument(data []byte, source string) (*element, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	var root *element
	var stack []*element

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &parsererror.InvalidFormatError{
				FilePath:       source,
				ExpectedFormat: "XBRL instance document",
				Msg:            err.Error(),
			}
		}
		switch tok := token.(type) {
		case xml.StartElement:
			node := &element{
				space: tok.Name.Space,
				local: tok.Name.Local,
				attrs: append([]xml.Attr(nil), tok.Attr...),
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, &parsererror.InvalidFormatError{
						FilePath:       source,
						ExpectedFormat: "XBRL instance document",
						Msg:            "multiple root elements",
					}
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(tok)
			}
		}
	}

	if root == nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       source,
			ExpectedFormat: "XBRL instance document",
			Msg:            "document has no root element",
		}
	}
	return root, nil
}

// qualifiedName renders the Clark form "{namespace}LocalName", or the bare
// local name for elements without a namespace.
func (e *element) qualifiedName() string {
	if e.space == "" {
		return e.local
	}
	return "{" + e.space + "}" + e.local
}

// attr returns an attribute value by local name, ignoring its namespace.
func (e *element) attr(local string) string {
	for _, attr := range e.attrs {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}

// value returns the element's own character data, trimmed.
func (e *element) value() string {
	return strings.TrimSpace(e.text)
}

// firstChild returns the first direct child with the given local name.
func (e *element) firstChild(local string) *element {
	for _, child := range e.children {
		if child.local == local {
			return child
		}
	}
	return nil
}

// childText returns the trimmed text of a path of nested child elements.
func (e *element) childText(path ...string) string {
	node := e
	for _, local := range path {
		node = node.firstChild(local)
		if node == nil {
			return ""
		}
	}
	return node.value()
}

// walk visits every element in document order, depth first.
func (e *element) walk(visit func(*element)) {
	visit(e)
	for _, child := range e.children {
		child.walk(visit)
	}
}
