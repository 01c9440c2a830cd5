// Package logger prints diagnostic messages to stderr when verbose
// mode is on. Commands stay quiet by default; --verbose surfaces what
// the pipeline is doing to each document.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose switches verbose logging on or off.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// SetOutput redirects log output, which tests use to capture lines.
// The default is os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// emit writes one prefixed line when verbose mode is on.
func emit(prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, prefix+" "+format+"\n", args...)
}

// Debug logs fine-grained pipeline detail.
func Debug(format string, args ...any) {
	emit("[DEBUG]", format, args...)
}

// Info logs notable progress.
func Info(format string, args ...any) {
	emit("[INFO]", format, args...)
}

// Warn logs degraded behaviour the run can survive.
func Warn(format string, args ...any) {
	emit("[WARN]", format, args...)
}

// Docf logs a line tagged with the document it belongs to. Batch
// workers log interleaved, so untagged lines would be unreadable.
func Docf(docID, format string, args ...any) {
	emit("[DOC "+docID+"]", format, args...)
}
