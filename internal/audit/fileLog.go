package audit

import (
	"context"
	"os"
	"sync"

	"github.com/akolanti/LessonIndexer/pkg/logger_i"
)

// FileLog appends failures to a local plain-text file. Failures to write the
// log itself are logged and swallowed; auditing never breaks a run.
type FileLog struct {
	path   string
	mu     sync.Mutex
	logger *logger_i.Logger
}

func NewFileLog(path string) *FileLog {
	return &FileLog{
		path:   path,
		logger: logger_i.NewLogger("AuditFileLog"),
	}
}

func (l *FileLog) Record(ctx context.Context, failure FailedFile) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.logger.Error("could not open audit log", "path", l.path, "error", err)
		return
	}
	defer f.Close()

	if _, err := f.WriteString(failure.Line()); err != nil {
		l.logger.Error("could not append to audit log", "path", l.path, "error", err)
	}
}
