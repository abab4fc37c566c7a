package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string]string
	meta    map[string]map[string]*string
	failKey string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{
		objects: map[string]string{},
		meta:    map[string]map[string]*string{},
	}
}

func (f *fakeUploader) Upload(in *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	return f.UploadWithContext(context.Background(), in, opts...)
}

func (f *fakeUploader) UploadWithContext(_ aws.Context, in *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	key := aws.StringValue(in.Key)
	if key == f.failKey {
		return nil, errors.New("access denied")
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = string(body)
	f.meta[key] = in.Metadata
	return &s3manager.UploadOutput{Location: "s3://" + aws.StringValue(in.Bucket) + "/" + key}, nil
}

func writeFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	files := make([]string, 0, len(names))
	for _, name := range names {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("content of "+name), 0644))
		files = append(files, p)
	}
	return files
}

func TestPublisher_ObjectKey(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		file   string
		want   string
	}{
		{name: "no prefix", file: "/tmp/out/build_3_stats.txt", want: "build_3_stats.txt"},
		{name: "prefix", prefix: "storefront/master", file: "/tmp/out/build_3_stats.txt", want: "storefront/master/build_3_stats.txt"},
		{name: "trailing slash", prefix: "reports/", file: "build_3_stats.txt", want: "reports/build_3_stats.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPublisher(newFakeUploader(), "bucket", tt.prefix, nil)
			assert.Equal(t, tt.want, p.ObjectKey(tt.file))
		})
	}
}

func TestPublisher_Publish(t *testing.T) {
	files := writeFiles(t, "build_3_stats.txt", "build_3_combined_output.txt", "build_3_common_lines.txt")
	up := newFakeUploader()
	p := NewPublisher(up, "ci-reports", "storefront", map[string]string{"build": "3"})

	uris, err := p.Publish(context.Background(), files, false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"s3://ci-reports/storefront/build_3_stats.txt",
		"s3://ci-reports/storefront/build_3_combined_output.txt",
		"s3://ci-reports/storefront/build_3_common_lines.txt",
	}, uris)

	keys := make([]string, 0, len(up.objects))
	for k := range up.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{
		"storefront/build_3_combined_output.txt",
		"storefront/build_3_common_lines.txt",
		"storefront/build_3_stats.txt",
	}, keys)
	assert.Equal(t, "content of build_3_stats.txt", up.objects["storefront/build_3_stats.txt"])
	assert.Equal(t, "3", aws.StringValue(up.meta["storefront/build_3_stats.txt"]["build"]))
}

func TestPublisher_PublishDryRun(t *testing.T) {
	files := writeFiles(t, "build_3_stats.txt")
	up := newFakeUploader()
	p := NewPublisher(up, "ci-reports", "", nil)

	uris, err := p.Publish(context.Background(), files, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"s3://ci-reports/build_3_stats.txt"}, uris)
	assert.Empty(t, up.objects)
}

func TestPublisher_PublishErrors(t *testing.T) {
	t.Run("upload failure", func(t *testing.T) {
		files := writeFiles(t, "build_3_stats.txt", "build_3_combined_output.txt")
		up := newFakeUploader()
		up.failKey = "build_3_combined_output.txt"
		p := NewPublisher(up, "ci-reports", "", nil)

		_, err := p.Publish(context.Background(), files, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access denied")
	})
	t.Run("missing file", func(t *testing.T) {
		p := NewPublisher(newFakeUploader(), "ci-reports", "", nil)
		_, err := p.Publish(context.Background(), []string{filepath.Join(t.TempDir(), "nope.txt")}, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open file")
	})
}

func TestNewS3Publisher(t *testing.T) {
	_, err := NewS3Publisher("us-east-1", "", "", nil)
	assert.Error(t, err)

	p, err := NewS3Publisher("us-east-1", "ci-reports", "x", nil)
	require.NoError(t, err)
	assert.Equal(t, "x/a.txt", p.ObjectKey("a.txt"))
}
