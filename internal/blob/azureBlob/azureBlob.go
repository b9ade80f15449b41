package azureBlob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/streaming"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/akolanti/LessonIndexer/internal/blob"
	"github.com/akolanti/LessonIndexer/pkg/logger_i"
)

var logger *logger_i.Logger

type Store struct {
	client *azblob.Client
}

// NewStore builds a client from the storage connection string. Credentials are
// validated lazily by the service, so a bad string only surfaces on first use.
func NewStore(connectionString string) (*Store, error) {
	logger = logger_i.NewLogger("AzureBlob")

	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, err
	}
	return &Store{client: client}, nil
}

func (s *Store) Ping(ctx context.Context, container string) error {
	pager := s.client.NewListBlobsFlatPager(container, &azblob.ListBlobsFlatOptions{
		MaxResults: ptrInt32(1),
	})
	if pager.More() {
		if _, err := pager.NextPage(ctx); err != nil {
			return classify(err)
		}
	}
	return nil
}

func (s *Store) ListObjects(ctx context.Context, container string, prefix string) ([]blob.ObjectInfo, error) {
	loggr := logger.With("container", container)

	var objects []blob.ObjectInfo
	pager := s.client.NewListBlobsFlatPager(container, &azblob.ListBlobsFlatOptions{
		Prefix: &prefix,
	})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			loggr.Error("listing failed", "error", err)
			return nil, classify(err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			info := blob.ObjectInfo{Path: *item.Name}
			if item.Properties != nil {
				if item.Properties.ContentLength != nil {
					info.Size = *item.Properties.ContentLength
				}
				if item.Properties.LastModified != nil {
					info.LastModified = *item.Properties.LastModified
				}
			}
			objects = append(objects, info)
		}
	}
	loggr.Debug("listed blobs", "prefix", prefix, "count", len(objects))
	return objects, nil
}

func (s *Store) DownloadObject(ctx context.Context, container string, path string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, container, path, nil)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, blob.Transient(err)
	}
	return data, nil
}

// AppendLog writes one entry to an append blob, creating the blob on the first
// append. A racing Create from another writer is harmless.
func (s *Store) AppendLog(ctx context.Context, container string, name string, entry []byte) error {
	appendClient := s.client.ServiceClient().NewContainerClient(container).NewAppendBlobClient(name)

	_, err := appendClient.AppendBlock(ctx, streaming.NopCloser(bytes.NewReader(entry)), nil)
	if err == nil {
		return nil
	}
	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) || respErr.StatusCode != 404 {
		return classify(err)
	}

	if _, err := appendClient.Create(ctx, nil); err != nil {
		return classify(err)
	}
	_, err = appendClient.AppendBlock(ctx, streaming.NopCloser(bytes.NewReader(entry)), nil)
	if err != nil {
		return classify(err)
	}
	return nil
}

// classify wraps recoverable failures in blob.TransientError. Throttling,
// timeouts and server errors retry; auth and not-found style errors do not.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch {
		case respErr.StatusCode == 408, respErr.StatusCode == 429:
			return blob.Transient(err)
		case respErr.StatusCode >= 500:
			return blob.Transient(err)
		}
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return blob.Transient(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return blob.Transient(err)
	}
	return err
}

func ptrInt32(v int32) *int32 { return &v }
