package logger

import (
	"sync"

	log_model "parcel-logistics/models/log"
	"parcel-logistics/types"

	"gorm.io/gorm"
)

// AsyncLogger persists HTTP request logs without blocking the request path.
type AsyncLogger struct {
	db      *gorm.DB
	log     *Logger
	channel chan types.LogEntry
	done    chan struct{}
	once    sync.Once
}

func NewAsyncLogger(db *gorm.DB, log *Logger) *AsyncLogger {
	if log == nil {
		log = Nop()
	}
	return &AsyncLogger{
		db:      db,
		log:     log.With("service", "AsyncLogger"),
		channel: make(chan types.LogEntry, 100), // Buffered channel to hold log entries
		done:    make(chan struct{}),
	}
}

// ProcessLog drains the channel until Close is called.
func (logger *AsyncLogger) ProcessLog() {
	defer close(logger.done)
	logger.log.Debug("starting asynchronous request logger")

	for logEntry := range logger.channel {
		dbLog := log_model.Log{
			Method:          logEntry.Method,
			URL:             logEntry.URL,
			RequestBody:     logEntry.RequestBody,
			ResponseBody:    logEntry.ResponseBody,
			RequestHeaders:  logEntry.RequestHeaders,
			ResponseHeaders: logEntry.ResponseHeaders,
			StatusCode:      logEntry.StatusCode,
			CreatedAt:       logEntry.CreatedAt,
		}

		if err := logger.db.Create(&dbLog).Error; err != nil {
			logger.log.Warn("failed to insert request log", "method", dbLog.Method, "url", dbLog.URL, "error", err)
		}
	}
}

// Log pushes a log entry into the channel. Entries are dropped when the buffer is full.
func (logger *AsyncLogger) Log(entry types.LogEntry) {
	if logger == nil {
		return
	}
	select {
	case logger.channel <- entry:
	default:
		logger.log.Warn("request log buffer full, dropping entry", "method", entry.Method, "url", entry.URL)
	}
}

// Close stops accepting entries and waits for the buffer to drain.
func (logger *AsyncLogger) Close() {
	logger.once.Do(func() {
		close(logger.channel)
		<-logger.done
	})
}
