package engine

import (
	"errors"
	"fmt"
)

// ErrSearchInProgress is returned by StartSearch while another search on the
// same engine has not finished. The running search is left untouched.
var ErrSearchInProgress = errors.New("engine: search already in progress")

// errSearchTimeout aborts a worker once the stop signal is observed. It is
// recovered at the worker boundary and never escapes the package.
var errSearchTimeout = errors.New("search timeout")

// ConfigError reports an engine option or go-limit value the search cannot be
// started with.
type ConfigError struct {
	Option string
	Value  int
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("engine: option %v=%v: %v", e.Option, e.Value, e.Reason)
}
