package config

import (
	"fmt"

	"go.starlark.net/starlark"
)

// WhenEvaluator evaluates per-item `when` predicates. Predicates are
// single Starlark expressions over platform facts, e.g.
// `os == "linux" and systemd`.
type WhenEvaluator struct {
	predeclared starlark.StringDict
}

// NewWhenEvaluator builds an evaluator over the given fact environment.
func NewWhenEvaluator(facts map[string]interface{}) (*WhenEvaluator, error) {
	predeclared := starlark.StringDict{}
	for key, val := range facts {
		sv, err := toStarlarkValue(val)
		if err != nil {
			return nil, fmt.Errorf("failed to convert fact %s: %w", key, err)
		}
		predeclared[key] = sv
	}
	return &WhenEvaluator{predeclared: predeclared}, nil
}

// Eval evaluates one predicate. An empty predicate is true.
func (w *WhenEvaluator) Eval(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}

	thread := &starlark.Thread{
		Name: "when",
		Print: func(_ *starlark.Thread, _ string) {
			// Predicates are expressions; print output is discarded.
		},
	}

	value, err := starlark.Eval(thread, "when", expr, w.predeclared)
	if err != nil {
		return false, fmt.Errorf("when predicate %q failed: %w", expr, err)
	}

	return bool(value.Truth()), nil
}

// toStarlarkValue converts a fact value to its Starlark representation.
func toStarlarkValue(val interface{}) (starlark.Value, error) {
	switch v := val.(type) {
	case nil:
		return starlark.None, nil
	case bool:
		return starlark.Bool(v), nil
	case string:
		return starlark.String(v), nil
	case int:
		return starlark.MakeInt(v), nil
	case int64:
		return starlark.MakeInt64(v), nil
	case float64:
		return starlark.Float(v), nil
	case []string:
		elems := make([]starlark.Value, len(v))
		for i, s := range v {
			elems[i] = starlark.String(s)
		}
		return starlark.NewList(elems), nil
	default:
		return nil, fmt.Errorf("unsupported fact type %T", val)
	}
}
