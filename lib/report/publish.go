package report

import (
	"context"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sync/atomic"

	"github.com/gravitational/uitest/lib/defaults"
	"github.com/gravitational/uitest/lib/system"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/dustin/go-humanize"
	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// PublishConfig defines where report directories are uploaded
type PublishConfig struct {
	// Bucket is the S3 bucket name
	Bucket string `json:"bucket" yaml:"bucket" env:"UITEST_PUBLISH_BUCKET"`
	// Prefix is the key prefix for uploaded files
	Prefix string `json:"prefix" yaml:"prefix" env:"UITEST_PUBLISH_PREFIX"`
	// Region is the AWS region of the bucket
	Region string `json:"region" yaml:"region" env:"UITEST_PUBLISH_REGION"`
}

// Check validates the configuration
func (r PublishConfig) Check() error {
	if r.Bucket == "" {
		return trace.BadParameter("publish bucket is required")
	}
	if r.Region == "" {
		return trace.BadParameter("publish region is required")
	}
	return nil
}

type uploader interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// NewPublisher returns a Publisher uploading to the configured S3 bucket
func NewPublisher(config PublishConfig) (*Publisher, error) {
	if err := config.Check(); err != nil {
		return nil, trace.Wrap(err)
	}
	sess, err := session.NewSession(&aws.Config{Region: aws.String(config.Region)})
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return &Publisher{
		config:      config,
		uploader:    s3manager.NewUploader(sess),
		FieldLogger: log.WithField("bucket", config.Bucket),
	}, nil
}

// Publisher uploads report directories to S3
type Publisher struct {
	log.FieldLogger
	config   PublishConfig
	uploader uploader
}

// Summary describes a completed upload
type Summary struct {
	// Files is the number of uploaded files
	Files int
	// Bytes is the total size of uploaded files
	Bytes uint64
}

// Publish uploads every file under dir, keeping its relative path under the configured prefix
func (r *Publisher) Publish(ctx context.Context, dir string) (*Summary, error) {
	files, err := system.ListFiles(dir)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if len(files) == 0 {
		return nil, trace.NotFound("no report files in %v", dir)
	}

	var total uint64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(defaults.PublishConcurrency)
	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := r.upload(ctx, dir, file); err != nil {
				return trace.Wrap(err, "failed to upload %v", file.Path)
			}
			atomic.AddUint64(&total, uint64(file.Size))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, trace.Wrap(err)
	}

	summary := &Summary{Files: len(files), Bytes: total}
	r.Infof("Published %v files (%v) to s3://%v/%v.",
		summary.Files, humanize.Bytes(summary.Bytes), r.config.Bucket, r.config.Prefix)
	return summary, nil
}

func (r *Publisher) upload(ctx context.Context, dir string, file system.File) error {
	f, err := os.Open(filepath.Join(dir, filepath.FromSlash(file.Path)))
	if err != nil {
		return trace.ConvertSystemError(err)
	}
	defer f.Close()

	input := &s3manager.UploadInput{
		Bucket: aws.String(r.config.Bucket),
		Key:    aws.String(path.Join(r.config.Prefix, file.Path)),
		Body:   f,
	}
	if contentType := mime.TypeByExtension(path.Ext(file.Path)); contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	_, err = r.uploader.UploadWithContext(ctx, input)
	return trace.Wrap(err)
}
