// Package evalbuilder maps an evaluator name from the command line to its
// constructor.
package evalbuilder

import (
	"fmt"

	"github.com/kestrel-engine/kestrel/pkg/engine"
	"github.com/kestrel-engine/kestrel/pkg/eval"
	material "github.com/kestrel-engine/kestrel/pkg/eval/material"
)

func Get(key string) (func() engine.Evaluator, error) {
	switch key {
	case "", "kestrel":
		return func() engine.Evaluator { return eval.NewEvaluationService() }, nil
	case "material":
		return func() engine.Evaluator { return material.NewEvaluationService() }, nil
	}
	return nil, fmt.Errorf("unknown eval %q", key)
}
