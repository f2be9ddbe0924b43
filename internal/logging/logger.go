package logging

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultBufferLines is how many log lines /logs can return
const DefaultBufferLines = 1000

// LogBuffer captures logs in memory
type LogBuffer struct {
	mu       sync.Mutex
	lines    []string
	maxLines int
}

// NewLogBuffer creates a buffer keeping the last maxLines writes
func NewLogBuffer(maxLines int) *LogBuffer {
	if maxLines <= 0 {
		maxLines = DefaultBufferLines
	}
	return &LogBuffer{
		lines:    make([]string, 0, maxLines),
		maxLines: maxLines,
	}
}

func (lb *LogBuffer) Write(p []byte) (n int, err error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.lines = append(lb.lines, string(p))
	if len(lb.lines) > lb.maxLines {
		lb.lines = append([]string(nil), lb.lines[len(lb.lines)-lb.maxLines:]...)
	}

	return len(p), nil
}

// Sync is a no-op so the buffer satisfies zapcore.WriteSyncer
func (lb *LogBuffer) Sync() error {
	return nil
}

// Lines returns a copy of the buffered lines
func (lb *LogBuffer) Lines() []string {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	logs := make([]string, len(lb.lines))
	copy(logs, lb.lines)
	return logs
}

// Writer returns the sink shared by zap and the HTTP access log
func Writer(buf *LogBuffer) io.Writer {
	if buf == nil {
		return os.Stdout
	}
	return io.MultiWriter(os.Stdout, buf)
}

// NewLogger creates a zap logger writing to stdout and buf
func NewLogger(development bool, buf *LogBuffer) *zap.Logger {
	var (
		encoderCfg zapcore.EncoderConfig
		encoder    zapcore.Encoder
		level      zapcore.Level
	)

	if development {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
		level = zapcore.DebugLevel
	} else {
		encoderCfg = zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderCfg)
		level = zapcore.InfoLevel
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(Writer(buf)), level)
	opts := []zap.Option{zap.AddCaller()}
	if development {
		opts = append(opts, zap.Development())
	}
	return zap.New(core, opts...)
}
