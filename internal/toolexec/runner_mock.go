package toolexec

import (
	"context"
	"strings"
)

// Call records one invocation seen by MockRunner.
type Call struct {
	Method string // "Output" or "Run"
	Name   string
	Args   []string
}

// MockRunner is a Runner for tests. Every Output call returns OutputText;
// Run calls go to RunFunc, or succeed with empty stdout when it is nil.
type MockRunner struct {
	// OutputText is returned (split into lines) by every Output call.
	OutputText string

	// RunFunc, when set, handles every Run call.
	RunFunc func(name string, args []string) (string, error)

	Calls []Call
}

// NewMockRunner creates a mock that returns text from Output and empty
// successful results from Run.
func NewMockRunner(text string) *MockRunner {
	return &MockRunner{OutputText: text}
}

func (m *MockRunner) Output(ctx context.Context, name string, args ...string) []string {
	m.Calls = append(m.Calls, Call{Method: "Output", Name: name, Args: args})
	return SplitLines(m.OutputText)
}

func (m *MockRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	m.Calls = append(m.Calls, Call{Method: "Run", Name: name, Args: args})
	if m.RunFunc != nil {
		return m.RunFunc(name, args)
	}
	return "", nil
}

// RunCalls returns the Run calls whose joined arguments contain substr.
func (m *MockRunner) RunCalls(substr string) []Call {
	var out []Call
	for _, c := range m.Calls {
		if c.Method == "Run" && strings.Contains(strings.Join(c.Args, " "), substr) {
			out = append(out, c)
		}
	}
	return out
}
