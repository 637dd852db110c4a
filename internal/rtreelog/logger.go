/*
Package rtreelog is the ambient logging layer the builder and the demo
binary use to report progress: bulk-load stats (entry count, fanout,
dimension, wall time) and the occasional warning or fatal condition.

It is trimmed down from the teacher's general-purpose logger
(logger/logger.go in the original AIS tree): only the leveled
Log/Info/Warning/Fatal/FatalIfErr surface and the RoundDuration
formatting helper survive, since this package never needs periodic
statistics loggers, multi-write Compose sessions, or a io.Writer
adapter — the same trimmed two-argument NewLogger shape the teacher
itself uses in places that don't need periodic logging (see
forwarder/forwarder_test.go's `l.NewLogger(os.Stderr, l.Info)`).
*/
package rtreelog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// log message importance
const (
	Debug   int = 9 // temporary or possibly interesting
	Info    int = 7 // interesting
	Warning int = 5 // temporary or caller error
	Error   int = 3 // permanent degradation
	Fatal   int = 1 // irrecoverable error
)

// fatalExitCode is the code Logger aborts the process with after a
// Fatal-level message.
const fatalExitCode int = 3

// Logger is a thread-safe leveled logger. Use Log (or one of its level
// wrappers) to print a message that passes the configured threshold.
// Should not be copied or moved; it holds a mutex.
type Logger struct {
	writeTo   io.WriteCloser
	writeLock sync.Mutex
	Treshold  int
}

// NewLogger creates a Logger that prints messages at or below level to
// writeTo.
func NewLogger(writeTo io.WriteCloser, level int) *Logger {
	return &Logger{writeTo: writeTo, Treshold: level}
}

// Close the underlying writer.
func (l *Logger) Close() {
	l.writeLock.Lock()
	_ = l.writeTo.Close()
	l.writeTo = nil
	l.writeLock.Unlock()
}

func (l *Logger) prefixMessage(level int) {
	if l.Treshold < Debug {
		fmt.Fprint(l.writeTo, time.Now().Format("2006-01-02 15:04:05: "))
	}
	if level == Warning {
		fmt.Fprint(l.writeTo, "WARNING: ")
	} else if level == Error {
		fmt.Fprint(l.writeTo, "ERROR: ")
	} else if level == Fatal && l.Treshold != Debug {
		fmt.Fprint(l.writeTo, "FATAL: ")
	}
}

// Log writes the message if it passes the logger's threshold.
func (l *Logger) Log(level int, format string, args ...interface{}) {
	if level <= l.Treshold {
		l.writeLock.Lock()
		defer l.writeLock.Unlock()
		l.prefixMessage(level)
		if len(args) == 0 {
			fmt.Fprint(l.writeTo, format)
		} else {
			fmt.Fprintf(l.writeTo, format, args...)
		}
		fmt.Fprintln(l.writeTo)
		if level == Fatal {
			os.Exit(fatalExitCode)
		}
	}
}

func (l *Logger) Info(format string, args ...interface{})    { l.Log(Info, format, args...) }
func (l *Logger) Warning(format string, args ...interface{}) { l.Log(Warning, format, args...) }
func (l *Logger) Fatal(format string, args ...interface{})   { l.Log(Fatal, format, args...) }

// FatalIfErr does nothing if err is nil, otherwise prints
// "Failed to <..>: $err" and aborts the process.
func (l *Logger) FatalIfErr(err error, format string, args ...interface{}) {
	if err != nil {
		args = append(args, err.Error())
		l.Fatal("Failed to "+format+": %s", args...)
	}
}

// RoundDuration drops excess precision for printing.
func RoundDuration(d, to time.Duration) string {
	d = d - (d % to)
	return d.String()
}
