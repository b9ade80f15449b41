package blob

import (
	"context"
	"errors"
	"time"
)

// ObjectInfo is the listing metadata for one stored object.
type ObjectInfo struct {
	Path         string
	Size         int64
	LastModified time.Time
}

// ObjectStore is the storage surface the pipeline consumes. Implementations
// must wrap recoverable service failures in TransientError so retry policies
// can tell them apart from permanent ones.
type ObjectStore interface {
	// Ping probes connectivity to a container before a full listing.
	Ping(ctx context.Context, container string) error
	ListObjects(ctx context.Context, container string, prefix string) ([]ObjectInfo, error)
	DownloadObject(ctx context.Context, container string, path string) ([]byte, error)
	// AppendLog appends an entry to a named append blob, creating it on
	// first use. Used only for the failed-file audit trail.
	AppendLog(ctx context.Context, container string, name string, entry []byte) error
}

// TransientError marks a failure worth retrying: timeouts, throttling and
// server-side errors, as opposed to missing containers or bad credentials.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return "transient storage error: " + e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
