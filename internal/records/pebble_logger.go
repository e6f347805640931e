package records

import (
	"context"
	"os"

	"github.com/cockroachdb/pebble"
	"github.com/fhuszti/image-optimiser-go/internal/logger"
)

// pebbleLogger sends pebble's internal messages through the service logger.
// Every operation reopens the store, so replay chatter stays at debug.
type pebbleLogger struct{}

var _ pebble.Logger = pebbleLogger{}

func (pebbleLogger) Infof(format string, args ...interface{}) {
	logger.Debugf(context.Background(), "pebble: "+format, args...)
}

func (pebbleLogger) Errorf(format string, args ...interface{}) {
	logger.Errorf(context.Background(), "pebble: "+format, args...)
}

func (pebbleLogger) Fatalf(format string, args ...interface{}) {
	logger.Errorf(context.Background(), "pebble fatal: "+format, args...)
	os.Exit(1)
}

func pebbleOptions() *pebble.Options {
	return &pebble.Options{Logger: pebbleLogger{}}
}
