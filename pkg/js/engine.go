package js

import (
	"fmt"

	"github.com/dop251/goja"

	"minibrowser/pkg/html"
)

// Engine runs a document's scripts against its DOM before styling.
type Engine struct {
	vm *goja.Runtime
}

func New() *Engine {
	vm := goja.New()
	registerConsole(vm)
	return &Engine{vm: vm}
}

// Execute runs the document's scripts in source order and stops at the
// first one that throws. Scripts see the same document object, so a
// later script observes the mutations of an earlier one.
func (e *Engine) Execute(doc *html.Document) error {
	registerDocument(e.vm, doc)

	for i, script := range doc.Scripts {
		if _, err := e.vm.RunString(script); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
	}
	return nil
}
