package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mwantia/fileobj/data"
)

// S3Fetcher serves 's3://bucket/key' addresses from S3 compatible storage.
// The bucket comes from the address host, so one fetcher covers all buckets
// reachable through the configured endpoint.
type S3Fetcher struct {
	client *minio.Client
}

func NewS3Fetcher(endpoint, accessKey, secretKey string, useSsl bool) (*S3Fetcher, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSsl,
	})
	if err != nil {
		return nil, err
	}

	return &S3Fetcher{
		client: client,
	}, nil
}

// Scheme returns the address scheme handled by this fetcher
func (*S3Fetcher) Scheme() string {
	return "s3"
}

// Open is part of the lifecycle behavious and gets called when opening this fetcher.
func (sf *S3Fetcher) Open(ctx context.Context) error {
	// Nothing to verify - buckets are addressed per request
	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this fetcher.
func (sf *S3Fetcher) Close(ctx context.Context) error {
	return nil
}

// Fetch opens a fresh reader over the object behind the address.
func (sf *S3Fetcher) Fetch(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	bucket, key, err := sf.resolveAddress(u)
	if err != nil {
		return nil, err
	}

	// Stat first so missing objects fail here instead of on the first read
	if _, err := sf.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{}); err != nil {
		return nil, sf.mapError(u, err)
	}

	object, err := sf.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, sf.mapError(u, err)
	}

	return object, nil
}

// Head reports object metadata without transferring the content.
func (sf *S3Fetcher) Head(ctx context.Context, u *url.URL) (*data.ResourceStat, error) {
	bucket, key, err := sf.resolveAddress(u)
	if err != nil {
		return nil, err
	}

	info, err := sf.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, sf.mapError(u, err)
	}

	contentType := data.ContentType(info.ContentType)
	if contentType == "" || contentType == data.ContentTypeApplicationStream {
		contentType = data.GetMIMEType(key)
	}

	return &data.ResourceStat{
		Key:         key,
		Size:        info.Size,
		ModifyTime:  info.LastModified,
		ContentType: contentType,
		ETag:        info.ETag,
	}, nil
}

// resolveAddress splits an s3 address into bucket and object key.
func (sf *S3Fetcher) resolveAddress(u *url.URL) (string, string, error) {
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")

	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: s3 address '%s' requires bucket and key", data.ErrMalformedAddress, u)
	}

	return bucket, key, nil
}

// mapError converts minio error responses onto the shared error set.
func (sf *S3Fetcher) mapError(u *url.URL, err error) error {
	errResponse := minio.ToErrorResponse(err)
	switch errResponse.Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: '%s'", data.ErrNotExist, u)
	case "AccessDenied":
		return fmt.Errorf("%w: '%s'", data.ErrPermission, u)
	}

	return err
}
