package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"patreonfetch/internal/logging"
)

// ListTiers asks patreon-dl for each creator's tiers and prints its output
// unchanged. Failures are printed and the loop continues; only context
// cancellation is returned.
func (r *Runner) ListTiers(ctx context.Context, creators []string, out io.Writer) error {
	for _, creator := range creators {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n--- Tiers for %s ---\n", creator)

		var stdout, stderr bytes.Buffer
		err := r.exec.Run(ctx, r.binary, []string{"--list-tiers", creator}, &stdout, &stderr)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err == nil {
			_, _ = out.Write(stdout.Bytes())
			continue
		}

		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		fmt.Fprintf(out, "Failed to list tiers: %s\n", detail)
		r.logger.Warn("tier listing failed",
			logging.String(logging.FieldCreator, creator),
			logging.Int("exit_code", ExitCode(err)),
			logging.Error(err),
		)
	}
	return nil
}
