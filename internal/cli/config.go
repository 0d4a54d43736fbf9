package cli

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/toyz/splice/internal/utils"
)

// DefaultWatchDelay is how long the watcher waits for changes to settle
// before rebuilding.
const DefaultWatchDelay = 150 * time.Millisecond

// Options holds the settings shared by the compiler, cleaner and watcher.
type Options struct {
	// Diagnostics receives human-facing progress output. Nil means quiet.
	Diagnostics *utils.DiagnosticSystem

	// Logger receives machine-readable build events.
	Logger zerolog.Logger

	// MaxErrors caps the per pass error collection before the pass gives up.
	MaxErrors int

	// WatchDelay is the debounce window of the watcher.
	WatchDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.Diagnostics == nil {
		o.Diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticSilent)
	}
	if o.MaxErrors <= 0 {
		o.MaxErrors = 20
	}
	if o.WatchDelay <= 0 {
		o.WatchDelay = DefaultWatchDelay
	}
	return o
}
