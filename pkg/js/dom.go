package js

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/dop251/goja"

	"minibrowser/pkg/css"
	"minibrowser/pkg/html"
)

// domContext holds the bindings of one Execute call. The proxy cache makes
// the same node come back as the same JS object, so === works.
type domContext struct {
	vm    *goja.Runtime
	doc   *html.Document
	cache map[*html.Node]goja.Value
}

// registerDocument sets the global document object.
func registerDocument(vm *goja.Runtime, doc *html.Document) *domContext {
	ctx := &domContext{vm: vm, doc: doc, cache: make(map[*html.Node]goja.Value)}

	docObj := vm.NewObject()
	docObj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Null()
		}
		node := getElementById(doc.Root, call.Arguments[0].String())
		if node == nil {
			return goja.Null()
		}
		return ctx.elementProxy(node)
	})
	docObj.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return ctx.elementArray(nil)
		}
		return ctx.elementArray(getElementsByTagName(doc.Root, strings.ToLower(call.Arguments[0].String())))
	})
	docObj.Set("getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return ctx.elementArray(nil)
		}
		return ctx.elementArray(getElementsByClassName(doc.Root, call.Arguments[0].String()))
	})
	docObj.Set("querySelector", ctx.querySelectorFn(doc.Root, false))
	docObj.Set("querySelectorAll", ctx.querySelectorFn(doc.Root, true))
	docObj.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(vm.NewTypeError("Failed to execute 'createElement' on 'Document': 1 argument required"))
		}
		return ctx.elementProxy(&html.Node{
			Type:       html.ElementNode,
			TagName:    strings.ToLower(call.Arguments[0].String()),
			Attributes: make(map[string]string),
		})
	})
	docObj.Set("createTextNode", func(call goja.FunctionCall) goja.Value {
		text := ""
		if len(call.Arguments) > 0 {
			text = call.Arguments[0].String()
		}
		return ctx.elementProxy(&html.Node{Type: html.TextNode, Text: text})
	})

	docObj.DefineAccessorProperty("title",
		vm.ToValue(func(goja.FunctionCall) goja.Value { return vm.ToValue(doc.Title) }),
		vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 {
				doc.Title = call.Arguments[0].String()
			}
			return goja.Undefined()
		}),
		goja.FLAG_FALSE, goja.FLAG_TRUE)
	docObj.DefineAccessorProperty("documentElement",
		vm.ToValue(func(goja.FunctionCall) goja.Value {
			if root := doc.RootElement(); root != nil {
				return ctx.elementProxy(root)
			}
			return goja.Null()
		}),
		nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	docObj.DefineAccessorProperty("body",
		vm.ToValue(func(goja.FunctionCall) goja.Value {
			if body := getElementsByTagName(doc.Root, "body"); len(body) > 0 {
				return ctx.elementProxy(body[0])
			}
			return goja.Null()
		}),
		nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	vm.Set("document", docObj)
	return ctx
}

func getElementById(node *html.Node, id string) *html.Node {
	if node.Type == html.ElementNode {
		if val, ok := node.Attributes["id"]; ok && val == id {
			return node
		}
	}
	for _, child := range node.Children {
		if found := getElementById(child, id); found != nil {
			return found
		}
	}
	return nil
}

func getElementsByTagName(node *html.Node, tag string) []*html.Node {
	var result []*html.Node
	walkElements(node, func(n *html.Node) bool {
		if tag == "*" || n.TagName == tag {
			result = append(result, n)
		}
		return false
	})
	return result
}

func getElementsByClassName(node *html.Node, cls string) []*html.Node {
	var result []*html.Node
	walkElements(node, func(n *html.Node) bool {
		for _, c := range strings.Fields(n.Attributes["class"]) {
			if c == cls {
				result = append(result, n)
				break
			}
		}
		return false
	})
	return result
}

// walkElements visits the element descendants of root in document order,
// excluding root itself, until fn returns true.
func walkElements(root *html.Node, fn func(*html.Node) bool) bool {
	for _, child := range root.Children {
		if child.Type != html.ElementNode {
			continue
		}
		if fn(child) || walkElements(child, fn) {
			return true
		}
	}
	return false
}

// querySelectorFn returns querySelector, or querySelectorAll when all is
// set, scoped to the descendants of root.
func (ctx *domContext) querySelectorFn(root *html.Node, all bool) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'querySelector': 1 argument required"))
		}
		selectors, err := css.ParseSelectorGroup(call.Arguments[0].String())
		if err != nil {
			panic(ctx.vm.NewGoError(err))
		}

		var found []*html.Node
		walkElements(root, func(n *html.Node) bool {
			for _, sel := range selectors {
				if css.MatchesSelector(n, sel) {
					found = append(found, n)
					return !all
				}
			}
			return false
		})

		if all {
			return ctx.elementArray(found)
		}
		if len(found) == 0 {
			return goja.Null()
		}
		return ctx.elementProxy(found[0])
	}
}

func (ctx *domContext) elementArray(nodes []*html.Node) goja.Value {
	arr := ctx.vm.NewArray()
	for i, n := range nodes {
		arr.Set(strconv.Itoa(i), ctx.elementProxy(n))
	}
	arr.Set("length", len(nodes))
	return arr
}

// elementProxy returns the cached JS object wrapping node, creating it on
// first use.
func (ctx *domContext) elementProxy(node *html.Node) goja.Value {
	if v, ok := ctx.cache[node]; ok {
		return v
	}
	v := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, node: node})
	ctx.cache[node] = v
	return v
}

// unwrapNode finds the node behind a proxy handed back from script.
func (ctx *domContext) unwrapNode(val goja.Value) *html.Node {
	if val == nil || goja.IsNull(val) || goja.IsUndefined(val) {
		return nil
	}
	obj := val.ToObject(ctx.vm)
	for node, cached := range ctx.cache {
		if cached.SameAs(obj) {
			return node
		}
	}
	return nil
}

var elementKeys = []string{
	"nodeType", "nodeName", "tagName", "id", "className", "textContent",
	"getAttribute", "setAttribute", "hasAttribute", "removeAttribute",
	"children", "childNodes", "parentElement", "style",
	"appendChild", "removeChild", "remove",
	"querySelector", "querySelectorAll",
}

// elementAccessor implements goja.DynamicObject over an html.Node.
type elementAccessor struct {
	ctx  *domContext
	node *html.Node
}

func (e *elementAccessor) Get(key string) goja.Value {
	vm := e.ctx.vm

	switch key {
	case "nodeType":
		if e.node.Type == html.TextNode {
			return vm.ToValue(3)
		}
		return vm.ToValue(1)
	case "nodeName":
		if e.node.Type == html.TextNode {
			return vm.ToValue("#text")
		}
		return vm.ToValue(strings.ToUpper(e.node.TagName))
	case "tagName":
		if e.node.Type != html.ElementNode {
			return goja.Undefined()
		}
		return vm.ToValue(strings.ToUpper(e.node.TagName))
	case "id":
		id, _ := e.node.GetAttribute("id")
		return vm.ToValue(id)
	case "className":
		cls, _ := e.node.GetAttribute("class")
		return vm.ToValue(cls)
	case "textContent":
		return vm.ToValue(e.node.TextContent())
	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			val, ok := e.node.GetAttribute(strings.ToLower(call.Arguments[0].String()))
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(val)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				return goja.Undefined()
			}
			e.node.SetAttribute(strings.ToLower(call.Arguments[0].String()), call.Arguments[1].String())
			return goja.Undefined()
		})
	case "hasAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			_, ok := e.node.GetAttribute(strings.ToLower(call.Arguments[0].String()))
			return vm.ToValue(ok)
		})
	case "removeAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 && e.node.Attributes != nil {
				delete(e.node.Attributes, strings.ToLower(call.Arguments[0].String()))
			}
			return goja.Undefined()
		})
	case "children":
		var elements []*html.Node
		for _, child := range e.node.Children {
			if child.Type == html.ElementNode {
				elements = append(elements, child)
			}
		}
		return e.ctx.elementArray(elements)
	case "childNodes":
		return e.ctx.elementArray(e.node.Children)
	case "parentElement":
		if p := e.node.Parent; p != nil && p.Type == html.ElementNode && p != e.ctx.doc.Root {
			return e.ctx.elementProxy(p)
		}
		return goja.Null()
	case "style":
		return vm.NewDynamicObject(&styleAccessor{vm: vm, node: e.node})
	case "appendChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := e.argNode(call, "appendChild")
			if child.Parent != nil {
				child.Parent.RemoveChild(child)
			}
			e.node.AddChild(child)
			return e.ctx.elementProxy(child)
		})
	case "removeChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := e.argNode(call, "removeChild")
			if e.node.RemoveChild(child) == nil {
				panic(vm.NewTypeError("Failed to execute 'removeChild': the node is not a child of this node"))
			}
			return e.ctx.elementProxy(child)
		})
	case "remove":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			if e.node.Parent != nil {
				e.node.Parent.RemoveChild(e.node)
			}
			return goja.Undefined()
		})
	case "querySelector":
		return vm.ToValue(e.ctx.querySelectorFn(e.node, false))
	case "querySelectorAll":
		return vm.ToValue(e.ctx.querySelectorFn(e.node, true))
	}
	return goja.Undefined()
}

func (e *elementAccessor) argNode(call goja.FunctionCall, method string) *html.Node {
	if len(call.Arguments) == 0 {
		panic(e.ctx.vm.NewTypeError("Failed to execute '" + method + "': 1 argument required"))
	}
	node := e.ctx.unwrapNode(call.Arguments[0])
	if node == nil {
		panic(e.ctx.vm.NewTypeError("Failed to execute '" + method + "': parameter is not a Node"))
	}
	return node
}

func (e *elementAccessor) Set(key string, val goja.Value) bool {
	switch key {
	case "textContent":
		e.node.SetTextContent(val.String())
	case "className":
		e.node.SetAttribute("class", val.String())
	case "id":
		e.node.SetAttribute("id", val.String())
	default:
		return false
	}
	return true
}

func (e *elementAccessor) Has(key string) bool {
	for _, k := range elementKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (e *elementAccessor) Delete(string) bool { return false }

func (e *elementAccessor) Keys() []string { return elementKeys }

// styleAccessor maps camelCase property access onto the declarations of
// the element's style attribute, which styling picks up as inline style.
type styleAccessor struct {
	vm   *goja.Runtime
	node *html.Node
}

func (s *styleAccessor) Get(key string) goja.Value {
	return s.vm.ToValue(parseInlineStyle(s.node.Attributes["style"])[camelToKebab(key)])
}

func (s *styleAccessor) Set(key string, val goja.Value) bool {
	styles := parseInlineStyle(s.node.Attributes["style"])
	styles[camelToKebab(key)] = val.String()
	s.node.SetAttribute("style", serializeInlineStyle(styles))
	return true
}

func (s *styleAccessor) Has(string) bool { return true }

func (s *styleAccessor) Delete(key string) bool {
	styles := parseInlineStyle(s.node.Attributes["style"])
	delete(styles, camelToKebab(key))
	s.node.SetAttribute("style", serializeInlineStyle(styles))
	return true
}

func (s *styleAccessor) Keys() []string {
	styles := parseInlineStyle(s.node.Attributes["style"])
	keys := make([]string, 0, len(styles))
	for k := range styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func parseInlineStyle(s string) map[string]string {
	result := make(map[string]string)
	for _, decl := range strings.Split(s, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if prop = strings.TrimSpace(prop); prop != "" {
			result[prop] = strings.TrimSpace(val)
		}
	}
	return result
}

// serializeInlineStyle writes declarations sorted by property name.
func serializeInlineStyle(m map[string]string) string {
	parts := make([]string, 0, len(m))
	for k, v := range m {
		parts = append(parts, k+": "+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

func camelToKebab(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
