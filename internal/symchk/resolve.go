package symchk

import (
	"context"
	"fmt"

	"github.com/mvp-joe/pdbcat/internal/toolexec"
)

// Resolve runs symchk and parses its output. A failing symchk is tolerated
// and simply yields fewer associations. Malformed output is not.
func Resolve(ctx context.Context, runner toolexec.Runner, tool string, req Request) ([]Association, error) {
	args, err := BuildArgs(req)
	if err != nil {
		return nil, fmt.Errorf("invalid symchk request: %w", err)
	}

	lines := runner.Output(ctx, tool, args...)

	associations, err := ParseAssociations(lines)
	if err != nil {
		return nil, fmt.Errorf("failed to parse symchk output: %w", err)
	}
	return associations, nil
}
