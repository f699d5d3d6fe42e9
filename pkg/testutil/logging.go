package testutil

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DiscardLogs points the global logger at io.Discard and returns a function
// restoring the previous logger and level. Packages that log while resolving
// call it from TestMain so test output stays readable.
func DiscardLogs() (restore func()) {
	original := log.Logger
	level := zerolog.GlobalLevel()
	log.Logger = zerolog.New(io.Discard)
	return func() {
		log.Logger = original
		zerolog.SetGlobalLevel(level)
	}
}
