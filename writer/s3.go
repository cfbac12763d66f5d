package writer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "matchflow/config"
	"matchflow/logger"
)

// ArtifactUploader mirrors published artifact files to S3. Upload happens
// after the local export succeeds, so the local directory is always the
// source of truth.
type ArtifactUploader struct {
	config   appconfig.S3Config
	s3Client *s3.Client
	log      *logger.Log
}

func NewArtifactUploader(cfg appconfig.S3Config) (*ArtifactUploader, error) {
	log := logger.GetLogger()

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	if err != nil || !creds.HasKeys() {
		return nil, fmt.Errorf("aws credentials not found")
	}

	uploader := &ArtifactUploader{
		config:   cfg,
		s3Client: s3.NewFromConfig(awsCfg),
		log:      log,
	}

	log.WithComponent("s3_uploader").WithFields(logger.Fields{
		"bucket": cfg.Bucket,
		"region": cfg.Region,
		"prefix": cfg.Prefix,
	}).Info("s3 uploader initialized")

	return uploader, nil
}

// Upload pushes each published file under prefix/<match_name>/<file>. A
// single failed file fails the batch; already-uploaded files are left in
// place since keys are deterministic and a retry overwrites them.
func (u *ArtifactUploader) Upload(ctx context.Context, matchName string, paths []string) error {
	log := u.log.WithComponent("s3_uploader").WithFields(logger.Fields{
		"match": matchName,
		"files": len(paths),
	})
	log.Info("uploading artifacts")

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read artifact %s: %w", path, err)
		}

		key := filepath.ToSlash(filepath.Join(u.config.Prefix, matchName, filepath.Base(path)))
		_, err = u.s3Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(u.config.Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType(path)),
		})
		if err != nil {
			log.WithError(err).WithFields(logger.Fields{"s3_key": key}).Error("artifact upload failed")
			return fmt.Errorf("upload %s to bucket %s: %w", key, u.config.Bucket, err)
		}
	}

	log.Info("artifacts uploaded")
	return nil
}

func contentType(path string) string {
	switch filepath.Ext(path) {
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
