package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/go-logfmt/logfmt"
)

// NewStreamLogger creates a logger writing to w in the given format.
func NewStreamLogger(w io.Writer, level Level, format Format) *StreamLogger {
	return &StreamLogger{
		writer: w,
		level:  level,
		format: format,
		mu:     &sync.Mutex{},
	}
}

// NewJSONLogger creates a FormatJSON logger.
func NewJSONLogger(w io.Writer, level Level) *StreamLogger {
	return NewStreamLogger(w, level, FormatJSON)
}

// NewTextLogger creates a FormatText logger.
func NewTextLogger(w io.Writer, level Level) *StreamLogger {
	return NewStreamLogger(w, level, FormatText)
}

// NewDefaultLogger writes JSON to stderr at INFO.
// Stdout is left to command output (reports, DOT, summaries).
func NewDefaultLogger() *StreamLogger {
	return NewJSONLogger(os.Stderr, InfoLevel)
}

func (l *StreamLogger) log(level Level, msg string, fields ...Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	merged := make(map[string]any, len(l.fields)+len(fields))
	for _, f := range l.fields {
		merged[f.Key] = f.Value
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}

	now := time.Now()
	var line []byte
	switch l.format {
	case FormatText:
		data, err := encodeText(now, level, msg, merged)
		if err != nil {
			fmt.Fprintf(l.writer, "[ERROR] Failed to encode log entry: %v\n", err)
			return
		}
		line = data
	default:
		entry := LogEntry{
			Time:    now.Format(time.RFC3339Nano),
			Level:   level.String(),
			Message: msg,
		}
		if len(merged) > 0 {
			entry.Fields = merged
		}
		data, err := json.Marshal(entry)
		if err != nil {
			fmt.Fprintf(l.writer, "[ERROR] Failed to marshal log entry: %v\n", err)
			return
		}
		line = append(data, '\n')
	}
	l.writer.Write(line)
}

func encodeText(now time.Time, level Level, msg string, fields map[string]any) ([]byte, error) {
	var b bytes.Buffer
	enc := logfmt.NewEncoder(&b)
	if err := enc.EncodeKeyvals("time", now.Format(time.RFC3339), "level", level.String(), "msg", msg); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := enc.EncodeKeyval(k, fields[k]); err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
	}
	if err := enc.EndRecord(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (l *StreamLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields...) }
func (l *StreamLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields...) }
func (l *StreamLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields...) }
func (l *StreamLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields...) }

// With returns a child carrying fields on every line. The child shares
// the parent's writer lock.
func (l *StreamLogger) With(fields ...Field) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	child := make([]Field, 0, len(l.fields)+len(fields))
	child = append(child, l.fields...)
	child = append(child, fields...)

	return &StreamLogger{
		writer: l.writer,
		level:  l.level,
		format: l.format,
		fields: child,
		mu:     l.mu,
	}
}

func (l *StreamLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *StreamLogger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

var (
	defaultLogger Logger
	defaultMu     sync.RWMutex
	once          sync.Once
)

// DefaultLogger returns the process logger, honouring LOG_LEVEL on first use.
func DefaultLogger() Logger {
	once.Do(func() {
		level := InfoLevel
		if s := os.Getenv("LOG_LEVEL"); s != "" {
			level = ParseLevel(s)
		}
		defaultMu.Lock()
		if defaultLogger == nil {
			defaultLogger = NewJSONLogger(os.Stderr, level)
		}
		defaultMu.Unlock()
	})
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger replaces the process logger
func SetDefaultLogger(logger Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// OrNop returns l, or a NopLogger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}

// StartTimer begins timing a pipeline stage
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: OrNop(logger),
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// End logs the stage at info level with its latency.
func (t *TimedOperation) End(extra ...Field) time.Duration {
	elapsed := time.Since(t.start)
	fields := make([]Field, 0, len(t.fields)+len(extra)+1)
	fields = append(fields, t.fields...)
	fields = append(fields, extra...)
	t.logger.Info(t.msg, append(fields, Latency(elapsed))...)
	return elapsed
}

// EndError logs the stage as failed
func (t *TimedOperation) EndError(err error) time.Duration {
	elapsed := time.Since(t.start)
	fields := make([]Field, 0, len(t.fields)+2)
	fields = append(fields, t.fields...)
	t.logger.Error(t.msg, append(fields, Latency(elapsed), Error(err))...)
	return elapsed
}
