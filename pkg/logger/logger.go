// Package logger holds the loggers shared by the browser packages.
package logger

import (
	"log"
	"os"
)

// ProgressLogger logs the main steps of loading and laying out a page.
var ProgressLogger = log.New(os.Stdout, "minibrowser.progress: ", log.LstdFlags)

// WarningLogger emits a warning for each non fatal problem, like a
// percentage where pixels were expected, a missing image or an unknown
// vertical-align keyword. Layout always continues after a warning.
var WarningLogger = log.New(os.Stdout, "minibrowser.warning: ", log.Lmsgprefix)
