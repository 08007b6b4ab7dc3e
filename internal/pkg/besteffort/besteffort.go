// Package besteffort runs side effects whose failure must not abort the
// surrounding operation.
package besteffort

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Run executes fn and logs a warning if it fails or panics. The caller's
// control flow is never affected.
func Run(lgr zerolog.Logger, op string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			lgr.Warn().Str("op", op).Interface("panic", r).Msg("Best-effort step panicked")
		}
	}()

	if err := fn(); err != nil {
		lgr.Warn().Err(fmt.Errorf("%s: %w", op, err)).Str("op", op).Msg("Best-effort step failed")
	}
}
