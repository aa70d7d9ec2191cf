package html

import (
	"fmt"
	"io"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Parser builds a Document from the token stream of golang.org/x/net/html.
// Unlike a full HTML5 tree builder it keeps the structure as written: no
// implied <html>, <body> or <tbody> elements are inserted.
type Parser struct {
	tokenizer *xhtml.Tokenizer
	doc       *Document
	stack     []*Node // Open elements, doc.Root at the bottom

	rawTag  string // "style" or "script" while accumulating its body
	rawText strings.Builder
}

func NewParser(r io.Reader) *Parser {
	return &Parser{
		tokenizer: xhtml.NewTokenizer(r),
		doc:       NewDocument(),
	}
}

func (p *Parser) Parse() (*Document, error) {
	p.stack = []*Node{p.doc.Root}

	for {
		tt := p.tokenizer.Next()
		switch tt {
		case xhtml.ErrorToken:
			if err := p.tokenizer.Err(); err != io.EOF {
				return nil, fmt.Errorf("tokenizer error: %w", err)
			}
			p.finishRaw()
			return p.doc, nil

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			p.startTag(p.tokenizer.Token(), tt == xhtml.SelfClosingTagToken)

		case xhtml.EndTagToken:
			tok := p.tokenizer.Token()
			if p.rawTag != "" && tok.Data == p.rawTag {
				p.finishRaw()
				continue
			}
			p.closeTag(tok.Data)

		case xhtml.TextToken:
			tok := p.tokenizer.Token()
			if p.rawTag != "" {
				p.rawText.WriteString(tok.Data)
				continue
			}
			p.currentParent().AppendText(tok.Data)

		case xhtml.CommentToken:
			p.currentParent().AddChild(&Node{Type: CommentNode, Text: p.tokenizer.Token().Data})

		case xhtml.DoctypeToken:
			p.currentParent().AddChild(&Node{Type: MetaNode, Text: p.tokenizer.Token().Data})
		}
	}
}

func (p *Parser) startTag(tok xhtml.Token, selfClosing bool) {
	tagName := tok.Data

	// <style> and <script> bodies are collected on the document and never
	// become part of the tree.
	if tagName == "style" || tagName == "script" {
		p.rawTag = tagName
		p.rawText.Reset()
		if selfClosing {
			p.finishRaw()
		}
		return
	}

	// Auto-close <p> when a block-level element is encountered inside it
	if p.isBlockElement(tagName) {
		p.autoCloseP()
	}

	attrs := make(map[string]string, len(tok.Attr))
	for _, a := range tok.Attr {
		attrs[a.Key] = a.Val
	}
	node := &Node{
		Type:       ElementNode,
		TagName:    tagName,
		Attributes: attrs,
		Children:   make([]*Node, 0),
	}
	p.currentParent().AddChild(node)

	if tagName == "link" && strings.Contains(attrs["rel"], "stylesheet") {
		if href, ok := attrs["href"]; ok && href != "" {
			p.doc.StylesheetLinks = append(p.doc.StylesheetLinks, href)
		}
	}

	if !selfClosing && !isVoidElement(tagName) {
		p.push(node)
	}
}

// finishRaw stores the accumulated body of a <style> or <script> element.
func (p *Parser) finishRaw() {
	switch p.rawTag {
	case "style":
		p.doc.Stylesheets = append(p.doc.Stylesheets, p.rawText.String())
	case "script":
		p.doc.Scripts = append(p.doc.Scripts, p.rawText.String())
	}
	p.rawTag = ""
	p.rawText.Reset()
}

// currentParent returns the current parent node (top of stack)
func (p *Parser) currentParent() *Node {
	if len(p.stack) == 0 {
		return p.doc.Root
	}
	return p.stack[len(p.stack)-1]
}

func (p *Parser) push(node *Node) {
	p.stack = append(p.stack, node)
}

// closeTag pops the stack until the matching tag is found and closed
func (p *Parser) closeTag(tagName string) {
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].TagName == tagName {
			if tagName == "title" && p.doc.Title == "" {
				p.doc.Title = strings.TrimSpace(p.stack[i].TextContent())
			}
			p.stack = p.stack[:i]
			return
		}
	}
	// Tag not found on stack; ignore the end tag
}

// autoCloseP closes an open <p> element if one is on the stack
func (p *Parser) autoCloseP() {
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].TagName == "p" {
			p.stack = p.stack[:i]
			return
		}
		// Don't close past block-level containers
		if p.isBlockElement(p.stack[i].TagName) {
			return
		}
	}
}

// isBlockElement returns true for elements that auto-close <p>
func (p *Parser) isBlockElement(tagName string) bool {
	switch tagName {
	case "address", "article", "aside", "blockquote", "details", "dialog",
		"dd", "div", "dl", "dt", "fieldset", "figcaption", "figure",
		"footer", "form", "h1", "h2", "h3", "h4", "h5", "h6",
		"header", "hgroup", "hr", "li", "main", "nav", "ol",
		"p", "pre", "section", "table", "ul":
		return true
	}
	return false
}

func isVoidElement(tag string) bool {
	switch tag {
	case "br", "hr", "img", "input", "meta", "link", "area", "base",
		"col", "embed", "param", "source", "track", "wbr":
		return true
	}
	return false
}

func Parse(html string) (*Document, error) {
	return NewParser(strings.NewReader(html)).Parse()
}

// ParseReader parses a fetched document, decoding it to UTF-8 according to
// the content type and any <meta charset> in the first bytes.
func ParseReader(r io.Reader, contentType string) (*Document, error) {
	decoded, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("detecting charset: %w", err)
	}
	return NewParser(decoded).Parse()
}
