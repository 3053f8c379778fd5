package common // import "github.com/CarlosBertoldo/acervo-educacional/common"

import (
	"io"
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// NewLogger returns a structured logger writing to w with the given
// prefix. Verbose enables V(1) messages.
func NewLogger(w io.Writer, prefix string, verbose bool) logr.Logger {
	if w == nil {
		w = os.Stderr
	}
	if verbose {
		stdr.SetVerbosity(1)
	}
	return stdr.New(log.New(w, prefix, log.LstdFlags|log.LUTC))
}

// ResolveLogger replaces an unset logger with one that discards.
func ResolveLogger(logger logr.Logger) logr.Logger {
	if logger.GetSink() == nil {
		return logr.Discard()
	}
	return logger
}
