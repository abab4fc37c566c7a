// Package publish uploads the report artifacts to an S3 bucket so they can be
// shared with the team.
package publish

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentUploads = 4

// Publisher uploads files under a key prefix of a bucket.
type Publisher struct {
	bucket   string
	prefix   string
	meta     map[string]string
	uploader s3manageriface.UploaderAPI
}

// NewS3Publisher creates a Publisher using the default AWS credential chain.
func NewS3Publisher(region, bucket, prefix string, meta map[string]string) (*Publisher, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name must be set")
	}
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return NewPublisher(s3manager.NewUploader(sess), bucket, prefix, meta), nil
}

// NewPublisher creates a Publisher with a custom uploader.
func NewPublisher(uploader s3manageriface.UploaderAPI, bucket, prefix string, meta map[string]string) *Publisher {
	return &Publisher{
		bucket:   bucket,
		prefix:   prefix,
		meta:     meta,
		uploader: uploader,
	}
}

// ObjectKey returns the key of the object holding file.
func (p *Publisher) ObjectKey(file string) string {
	return path.Join(p.prefix, filepath.Base(file))
}

// Publish uploads the files and returns their s3:// URIs in the same order.
// In dry-run mode nothing is uploaded.
func (p *Publisher) Publish(ctx context.Context, files []string, dryRun bool) ([]string, error) {
	uris := make([]string, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)

	for i, file := range files {
		i, file := i, file
		key := p.ObjectKey(file)
		uris[i] = fmt.Sprintf("s3://%s/%s", p.bucket, key)
		if dryRun {
			log.Warnf("DRY-RUN mode: skipping upload to %s", uris[i])
			continue
		}
		g.Go(func() error {
			return p.upload(ctx, file, key)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return uris, nil
}

func (p *Publisher) upload(ctx context.Context, file, key string) error {
	log.Debugf("uploading %s to s3://%s/%s", file, p.bucket, key)
	fd, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", file, err)
	}
	defer fd.Close()

	input := &s3manager.UploadInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
		Body:   fd,
	}
	if len(p.meta) > 0 {
		input.Metadata = aws.StringMap(p.meta)
	}
	if _, err := p.uploader.UploadWithContext(ctx, input); err != nil {
		return fmt.Errorf("failed to upload file %s to bucket %s: %w", file, p.bucket, err)
	}
	log.Infof("Published %s to s3://%s/%s", filepath.Base(file), p.bucket, key)
	return nil
}
