package minio

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/pkg/errors"
)

// ArchivedPayload describes one stored payload.
type ArchivedPayload struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// PayloadArchive stores provider payloads that could not be normalized so
// that they can be inspected later.  It implements order.PayloadArchive.
type PayloadArchive struct {
	client *Client
}

// NewPayloadArchive returns an archive over c.
func NewPayloadArchive(c *Client) *PayloadArchive {
	return &PayloadArchive{client: c}
}

// ArchivePayload writes payload under key.
func (a *PayloadArchive) ArchivePayload(ctx context.Context, key string, payload []byte) error {
	if a.client.isClosed() {
		return ErrClientClosed
	}
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return errors.New(errors.ErrCodeValidation, "object key required")
	}

	info, err := a.client.api.PutObject(ctx, a.client.bucket, key, bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{
			ContentType:  contentType(payload),
			UserMetadata: map[string]string{"archived-by": "titleorder"},
		})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to archive payload").WithDetail(key)
	}
	a.client.logger.Info("payload archived",
		logging.String("bucket", info.Bucket),
		logging.String("key", key),
		logging.Int64("size", info.Size))
	return nil
}

// List returns archived payloads under prefix, oldest first as listed by the
// store.
func (a *PayloadArchive) List(ctx context.Context, prefix string, limit int) ([]ArchivedPayload, error) {
	if a.client.isClosed() {
		return nil, ErrClientClosed
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var out []ArchivedPayload
	for obj := range a.client.api.ListObjects(ctx, a.client.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, errors.ErrCodeStorageError, "failed to list payloads")
		}
		out = append(out, ArchivedPayload{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func contentType(payload []byte) string {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return "application/json"
	}
	return "application/octet-stream"
}
