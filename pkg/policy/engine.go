// Package policy evaluates Rego safety policies over planned changes
// before they are applied. Builtin policies guard symlink placement, file
// modes and removal scope; user policies can be loaded from a directory
// of .rego files.
package policy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/open-policy-agent/opa/rego"
	"github.com/rs/zerolog"
)

// Engine holds the active policy set. Evaluation is read-only and safe
// for concurrent use once loading is done.
type Engine struct {
	mu       sync.RWMutex
	policies map[string]Policy
	logger   zerolog.Logger
}

// NewEngine creates an engine primed with the builtin policies.
func NewEngine(logger zerolog.Logger) *Engine {
	e := &Engine{
		policies: make(map[string]Policy),
		logger:   logger.With().Str("component", "policy").Logger(),
	}
	for _, p := range builtinPolicies() {
		e.policies[p.Name] = p
	}
	return e
}

// AddPolicy registers or replaces a policy by name.
func (e *Engine) AddPolicy(p Policy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.policies[p.Name] = p
}

// LoadDir loads every .rego file in dir as an enabled error-severity
// policy named after the file.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read policy directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".rego" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read policy %s: %w", entry.Name(), err)
		}
		name := strings.TrimSuffix(entry.Name(), ".rego")
		e.AddPolicy(Policy{
			Name:     name,
			Rego:     string(raw),
			Severity: SeverityError,
			Enabled:  true,
		})
		e.logger.Debug().Str("policy", name).Msg("loaded user policy")
	}
	return nil
}

// Policies returns the active policy names, for reporting.
func (e *Engine) Policies() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.policies))
	for name := range e.policies {
		names = append(names, name)
	}
	return names
}

// Check evaluates every enabled policy against one planned change. The
// result is denied when any violation carries error severity; evaluation
// failures of individual policies are logged and skipped rather than
// blocking the run.
func (e *Engine) Check(ctx context.Context, input ChangeInput) (*Result, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := &Result{Allowed: true}
	for _, p := range e.policies {
		if !p.Enabled {
			continue
		}
		violations, err := e.evaluate(ctx, p, input)
		if err != nil {
			e.logger.Error().Err(err).Str("policy", p.Name).Msg("policy evaluation failed")
			continue
		}
		result.Violations = append(result.Violations, violations...)
	}

	for _, v := range result.Violations {
		if v.Severity == SeverityError {
			result.Allowed = false
			break
		}
	}
	return result, nil
}

// evaluate runs one policy's deny query over the input.
func (e *Engine) evaluate(ctx context.Context, p Policy, input ChangeInput) ([]Violation, error) {
	pkg := extractPackageName(p.Rego)
	if pkg == "" {
		return nil, fmt.Errorf("policy %s has no package declaration", p.Name)
	}

	r := rego.New(
		rego.Module(p.Name, p.Rego),
		rego.Query(fmt.Sprintf("data.%s.deny", pkg)),
		rego.Input(input),
	)
	results, err := r.Eval(ctx)
	if err != nil {
		return nil, fmt.Errorf("rego evaluation: %w", err)
	}

	var violations []Violation
	for _, res := range results {
		for _, expr := range res.Expressions {
			denySet, ok := expr.Value.([]interface{})
			if !ok {
				continue
			}
			for _, d := range denySet {
				violations = append(violations, e.toViolation(p, input, d))
			}
		}
	}
	return violations, nil
}

// toViolation converts one deny object into a Violation, falling back to
// the policy's default severity.
func (e *Engine) toViolation(p Policy, input ChangeInput, raw interface{}) Violation {
	v := Violation{
		Policy:   p.Name,
		Resource: input.Resource,
		Message:  "policy denied",
		Severity: p.Severity,
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return v
	}
	if msg, ok := obj["message"].(string); ok {
		v.Message = msg
	}
	if sev, ok := obj["severity"].(string); ok {
		v.Severity = Severity(sev)
	}
	return v
}

// packagePattern matches the package declaration of a Rego module.
var packagePattern = regexp.MustCompile(`(?m)^package\s+([\w.]+)`)

// extractPackageName pulls the package path out of Rego source.
func extractPackageName(source string) string {
	m := packagePattern.FindStringSubmatch(source)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
