// Package logging provides the structured logger used throughout navplan:
// a small zap-backed Logger with pluggable Appenders, so MapPipeline and
// Planner can log ingest/expansion diagnostics without depending on a
// specific output sink.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultTimeFormatStr is the timestamp format used by ConsoleAppender.
const DefaultTimeFormatStr = "2006-01-02T15:04:05.000Z0700"

// Appender is an output for log entries: a subset of zapcore.Core that
// navplan's components log diagnostics through, so embedding applications
// can redirect planner/map logging without importing zap directly.
type Appender interface {
	// Write submits a structured log entry to the appender.
	Write(zapcore.Entry, []zapcore.Field) error
	// Sync flushes any buffered logs. Called at session shutdown.
	Sync() error
}

// ConsoleAppender writes human-readable, tab-separated log lines to an
// io.Writer (stdout, a file, or any other sink).
type ConsoleAppender struct {
	io.Writer
}

// NewStdoutAppender creates an appender that prints to stdout.
func NewStdoutAppender() ConsoleAppender {
	return ConsoleAppender{os.Stdout}
}

// NewWriterAppender creates an appender that prints to the given writer.
func NewWriterAppender(writer io.Writer) ConsoleAppender {
	return ConsoleAppender{writer}
}

// NewFileAppender creates an Appender that writes to a rotating log file.
// Each call rotates any existing file with the same name out of the way
// first, so successive runs writing to the same file don't interleave. The returned io.Closer should be closed at shutdown.
func NewFileAppender(filename string) (Appender, io.Closer, error) {
	logger := &lumberjack.Logger{
		Filename: filename,
		// Large enough that size-based rollover never triggers; rotation
		// only happens explicitly, below, on process start.
		MaxSize: 1024 * 1024,
	}
	if err := logger.Rotate(); err != nil {
		return nil, nil, fmt.Errorf("logging: rotate %s: %w", filename, err)
	}
	return NewWriterAppender(logger), logger, nil
}

// ZapcoreFieldsToJSON serializes fields into a JSON object, preserving
// field order (unlike iterating a map).
func ZapcoreFieldsToJSON(fields []zapcore.Field) (result string, err error) {
	// zap's JSON encoder can panic on a Field whose Type doesn't match its
	// payload; recover so one malformed field doesn't take down the
	// caller's goroutine.
	defer func() {
		if r := recover(); r != nil {
			if perr, ok := r.(error); ok {
				err = fmt.Errorf("panic serializing log fields: %w", perr)
				return
			}
			err = fmt.Errorf("panic serializing log fields: %v", r)
		}
	}()
	jsonEncoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{SkipLineEnding: true})
	buf, err := jsonEncoder.EncodeEntry(zapcore.Entry{}, fields)
	if err != nil {
		return "", err
	}
	return string(buf.Bytes()), nil
}

// Write renders entry as a tab-separated line: UTC timestamp, level,
// logger name, caller (if present), message, then any fields as a trailing
// JSON blob.
func (appender ConsoleAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	const fieldCount = 5
	toPrint := make([]string, 0, fieldCount)
	toPrint = append(toPrint, entry.Time.UTC().Format(DefaultTimeFormatStr))
	toPrint = append(toPrint, strings.ToUpper(entry.Level.String()))
	toPrint = append(toPrint, entry.LoggerName)
	if entry.Caller.Defined {
		toPrint = append(toPrint, callerToString(&entry.Caller))
	}
	toPrint = append(toPrint, entry.Message)

	if len(fields) == 0 {
		_, err := fmt.Fprintln(appender.Writer, strings.Join(toPrint, "\t"))
		return err
	}

	fieldsJSON, err := ZapcoreFieldsToJSON(fields)
	if err != nil {
		if errJSON, jerr := json.Marshal(map[string]string{"logging_err": err.Error()}); jerr == nil {
			fieldsJSON = string(errJSON)
		} else {
			fieldsJSON = err.Error()
		}
	}
	toPrint = append(toPrint, fieldsJSON)
	_, err = fmt.Fprintln(appender.Writer, strings.Join(toPrint, "\t"))
	return err
}

// Sync is a no-op: ConsoleAppender buffers nothing itself.
func (appender ConsoleAppender) Sync() error {
	return nil
}

// callerToString renders caller as "<package>/<file>:<line>", trimming the
// path down to its last two path segments. caller.Defined must be true.
func callerToString(caller *zapcore.EntryCaller) string {
	cnt := 0
	idx := strings.LastIndexFunc(caller.File, func(rn rune) bool {
		if rn == '/' {
			cnt++
		}
		return cnt == 2
	})
	return fmt.Sprintf("%s:%d", caller.File[idx+1:], caller.Line)
}

// appenderCore adapts an Appender to zapcore.Core, so Logger can be built
// from zap's own With/Check/level-filtering machinery while fanning entries
// out to one or more Appenders.
type appenderCore struct {
	zapcore.LevelEnabler
	appenders []Appender
	fields    []zapcore.Field
}

func (c *appenderCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &appenderCore{LevelEnabler: c.LevelEnabler, appenders: c.appenders, fields: merged}
}

func (c *appenderCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *appenderCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)
	var firstErr error
	for _, a := range c.appenders {
		if err := a.Write(entry, all); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *appenderCore) Sync() error {
	var firstErr error
	for _, a := range c.appenders {
		if err := a.Sync(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Logger is the structured, leveled logger MapPipeline and Planner accept
// for diagnostics: per-ingest acceptance, grid recenters, and
// per-expansion budget/goal events. It is a thin
// wrapper over *zap.SugaredLogger so callers get both printf-style and
// structured (key/value) logging.
type Logger struct {
	*zap.SugaredLogger
}

// NewLogger builds a Logger named name, fanning entries out to every given
// appender at minLevel and above. With no appenders, logs are discarded.
func NewLogger(name string, minLevel zapcore.Level, appenders ...Appender) Logger {
	core := &appenderCore{LevelEnabler: minLevel, appenders: appenders}
	zl := zap.New(core, zap.AddCaller()).Named(name)
	return Logger{SugaredLogger: zl.Sugar()}
}

// NewTestLogger builds a Logger at Debug level writing to stdout, for use
// in demos and tests that want visible output without wiring appenders.
func NewTestLogger(name string) Logger {
	return NewLogger(name, zapcore.DebugLevel, NewStdoutAppender())
}

// With returns a Logger that adds the given key/value pairs to every
// subsequent log entry. Shadows zap.SugaredLogger.With so the result stays
// a logging.Logger rather than a bare *zap.SugaredLogger.
func (l Logger) With(args ...interface{}) Logger {
	return Logger{SugaredLogger: l.SugaredLogger.With(args...)}
}
