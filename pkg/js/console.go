package js

import (
	"strings"

	"github.com/dop251/goja"

	"minibrowser/pkg/logger"
)

// registerConsole installs console.log, console.warn and console.error.
// log goes to the progress log, the other two to the warning log.
func registerConsole(vm *goja.Runtime) {
	console := vm.NewObject()
	console.Set("log", func(call goja.FunctionCall) goja.Value {
		logger.ProgressLogger.Printf("console: %s", formatArgs(call.Arguments))
		return goja.Undefined()
	})
	console.Set("warn", func(call goja.FunctionCall) goja.Value {
		logger.WarningLogger.Printf("console: %s", formatArgs(call.Arguments))
		return goja.Undefined()
	})
	console.Set("error", func(call goja.FunctionCall) goja.Value {
		logger.WarningLogger.Printf("console error: %s", formatArgs(call.Arguments))
		return goja.Undefined()
	})
	vm.Set("console", console)
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}
