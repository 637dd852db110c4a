package rtreelog

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type buf struct {
	bytes.Buffer
}

func (buf) Close() error { return nil }

func TestLoggerFiltersByThreshold(t *testing.T) {
	var b buf
	log := NewLogger(&b, Warning)
	log.Info("should not appear")
	log.Warning("should appear: %d", 42)

	assert.NotContains(t, b.String(), "should not appear")
	assert.Contains(t, b.String(), "should appear: 42")
	assert.Contains(t, b.String(), "WARNING: ")
}

func TestFatalIfErrIsNoopOnNilError(t *testing.T) {
	var b buf
	log := NewLogger(&b, Info)
	log.FatalIfErr(nil, "doing the thing")
	assert.Empty(t, b.String())
}

func TestFatalIfErrBelowFatalThresholdWritesNothing(t *testing.T) {
	// FatalIfErr calls os.Exit once a real error passes the threshold,
	// so this only checks that a non-nil error is dropped when the
	// logger's threshold is below Fatal.
	var b buf
	log := NewLogger(&b, Fatal-1) // below Fatal threshold: Log is a no-op, so no os.Exit
	log.FatalIfErr(errors.New("boom"), "build tree")
	assert.Empty(t, b.String())
}

func TestRoundDuration(t *testing.T) {
	assert.Equal(t, "1.2s", RoundDuration(1234*time.Millisecond, 100*time.Millisecond))
}
