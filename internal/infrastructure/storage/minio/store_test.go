package minio

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
)

type fakeObjectAPI struct {
	buckets map[string]bool
	puts    map[string][]byte
	removed []string
}

func newFakeObjectAPI() *fakeObjectAPI {
	return &fakeObjectAPI{
		buckets: make(map[string]bool),
		puts:    make(map[string][]byte),
	}
}

func (f *fakeObjectAPI) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return f.buckets[bucketName], nil
}

func (f *fakeObjectAPI) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	f.buckets[bucketName] = true
	return nil
}

func (f *fakeObjectAPI) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.puts[objectName] = data
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: int64(len(data))}, nil
}

func (f *fakeObjectAPI) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error) {
	return nil, nil
}

func (f *fakeObjectAPI) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	f.removed = append(f.removed, objectName)
	delete(f.puts, objectName)
	return nil
}

func (f *fakeObjectAPI) PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error) {
	return url.Parse("https://storage.local/" + bucketName + "/" + objectName)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"policy.pdf", "policy.pdf"},
		{"my policy (final).pdf", "my_policy__final_.pdf"},
		{"../../etc/passwd", "passwd"},
		{"C:\\Users\\me\\doc.pdf", "doc.pdf"},
		{"", "document"},
		{"פוליסה.pdf", "______.pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), "input %q", tt.in)
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("demo-user", "policy.pdf")
	assert.True(t, strings.HasPrefix(key, "users/demo-user/"))
	assert.True(t, strings.HasSuffix(key, "-policy.pdf"))

	// Repeated uploads of the same filename never collide.
	assert.NotEqual(t, key, ObjectKey("demo-user", "policy.pdf"))
}

func TestStoreUploadAndDelete(t *testing.T) {
	api := newFakeObjectAPI()
	api.buckets["insuraiq-documents"] = true
	s := &Store{client: api, bucket: "insuraiq-documents", logger: logging.NewNopLogger()}

	content := []byte("%PDF-1.4 test document")
	key, err := s.Upload(context.Background(), "demo-user", "policy.pdf", "application/pdf",
		bytes.NewReader(content), int64(len(content)))
	require.NoError(t, err)
	assert.Equal(t, content, api.puts[key])

	require.NoError(t, s.Delete(context.Background(), key))
	assert.Contains(t, api.removed, key)
	assert.NotContains(t, api.puts, key)
}

func TestStoreEnsureBucketCreatesMissing(t *testing.T) {
	api := newFakeObjectAPI()
	s := &Store{client: api, bucket: "insuraiq-documents", logger: logging.NewNopLogger()}

	require.NoError(t, s.ensureBucket(context.Background()))
	assert.True(t, api.buckets["insuraiq-documents"])
}

func TestStorePresignGetURL(t *testing.T) {
	api := newFakeObjectAPI()
	s := &Store{client: api, bucket: "insuraiq-documents", logger: logging.NewNopLogger()}

	u, err := s.PresignGetURL(context.Background(), "users/demo-user/abc-policy.pdf", 0)
	require.NoError(t, err)
	assert.Contains(t, u, "insuraiq-documents/users/demo-user/abc-policy.pdf")
}

func TestNopStore(t *testing.T) {
	var store DocumentStore = NopStore{}

	key, err := store.Upload(context.Background(), "u", "f.pdf", "application/pdf", strings.NewReader("x"), 1)
	require.NoError(t, err)
	assert.Empty(t, key)

	_, err = store.Download(context.Background(), "k")
	assert.Error(t, err)
	assert.NoError(t, store.Delete(context.Background(), "k"))
}
