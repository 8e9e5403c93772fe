package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the structured logger handed to services.
type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

type Options struct {
	// Mode is "production" or anything else for development output.
	Mode string
	// Directory receives the rotating log file. Empty disables file output.
	Directory string
}

var (
	mu      sync.RWMutex
	base    = &Logger{SugaredLogger: zap.NewNop().Sugar()}
	closers []func() error
)

// Init builds the process logger and makes it the target of the package helpers.
func Init(opts Options) (*Logger, error) {
	l, err := New(opts)
	if err != nil {
		return nil, err
	}
	mu.Lock()
	base = l
	mu.Unlock()
	l.Info("🚀 Logger initialized successfully!")
	return l, nil
}

// New builds a zap logger writing to the console and, when configured, a lumberjack rotated file.
func New(opts Options) (*Logger, error) {
	level := zap.DebugLevel
	encCfg := zap.NewDevelopmentEncoderConfig()
	if isProduction(opts.Mode) {
		level = zap.InfoLevel
		encCfg = zap.NewProductionEncoderConfig()
	}
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stdout), level),
	}

	if opts.Directory != "" {
		if err := os.MkdirAll(opts.Directory, os.ModePerm); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		rotating := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Directory, "app.log"),
			MaxSize:    100, // MB
			MaxBackups: 7,
			MaxAge:     30, // days
			Compress:   true,
		}
		mu.Lock()
		closers = append(closers, rotating.Close)
		mu.Unlock()
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotating), level))
	}

	z := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return &Logger{SugaredLogger: z.Sugar()}, nil
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Debugw(msg, keysAndValues...)
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Infow(msg, keysAndValues...)
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Warnw(msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, keysAndValues...)
}

func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(keysAndValues...)}
}

// Close flushes the process logger and closes rotated files.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	_ = base.SugaredLogger.Sync()
	for _, c := range closers {
		_ = c()
	}
	closers = nil
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return base.SugaredLogger.WithOptions(zap.AddCallerSkip(1))
}

func isProduction(mode string) bool {
	switch strings.ToLower(mode) {
	case "prod", "production":
		return true
	}
	return false
}

// ✅ সাকসেস লগ প্রিন্ট করার ফাংশন
func Success(message string) {
	current().Info("✅ " + message)
}

func Error(message string, err error) {
	if err != nil {
		current().Error("❌ " + message + ": " + err.Error())
	} else {
		current().Error("❌ " + message)
	}
}

func Warning(message string) {
	current().Warn("⚠️ " + message)
}

func Debug(message string) {
	current().Debug("🐛 " + message)
}

func Info(message string) {
	current().Info("ℹ️ " + message)
}

func Fatal(message string) {
	current().Fatal("💥 " + message)
}

func Printf(format string, args ...interface{}) {
	current().Info(fmt.Sprintf("📝 "+format, args...))
}
