package logs

import (
	"io"
	"os"

	logging "gopkg.in/op/go-logging.v1"
)

var format = logging.MustStringFormatter(`%{time:15:04:05.000} %{level:.4s} [%{module}] %{message}`)

// Programs embedding the library only see warnings until they call Setup or
// install their own go-logging backend.
func init() {
	Setup(os.Stderr, false)
}

// Logger returns the named logger for a package.
func Logger(module string) *logging.Logger {
	return logging.MustGetLogger(module)
}

// Setup routes every package logger to w. Only warnings and errors are shown
// unless verbose is set.
func Setup(w io.Writer, verbose bool) {
	backend := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), format)
	leveled := logging.AddModuleLevel(backend)
	if verbose {
		leveled.SetLevel(logging.DEBUG, "")
	} else {
		leveled.SetLevel(logging.WARNING, "")
	}
	logging.SetBackend(leveled)
}
