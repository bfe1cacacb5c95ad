package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvaluator(t *testing.T) *WhenEvaluator {
	t.Helper()
	w, err := NewWhenEvaluator(map[string]interface{}{
		"os":          "linux",
		"systemd":     true,
		"registry":    false,
		"pkg_manager": "apt",
		"editor":      "",
	})
	require.NoError(t, err)
	return w
}

func TestWhenEvalExpressions(t *testing.T) {
	w := testEvaluator(t)

	tests := []struct {
		expr string
		want bool
	}{
		{"", true},
		{`os == "linux"`, true},
		{`os == "windows"`, false},
		{"systemd", true},
		{"registry", false},
		{`os == "linux" and pkg_manager != ""`, true},
		{`editor != ""`, false},
		{`os in ["linux", "darwin"]`, true},
		{"not registry", true},
	}
	for _, tc := range tests {
		got, err := w.Eval(tc.expr)
		require.NoError(t, err, tc.expr)
		assert.Equal(t, tc.want, got, tc.expr)
	}
}

func TestWhenEvalSyntaxError(t *testing.T) {
	w := testEvaluator(t)

	_, err := w.Eval("os ==")
	require.Error(t, err)
}

func TestWhenEvalUnknownFact(t *testing.T) {
	w := testEvaluator(t)

	_, err := w.Eval("no_such_fact")
	require.Error(t, err)
}
