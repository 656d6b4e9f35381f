package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Apurer/spottythings-api/internal/domains/mail/domain"
	"github.com/Apurer/spottythings-api/internal/domains/mail/ports"
)

// Config describes the object store holding sent mail.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Archive writes a JSON copy of each sent message to a bucket.
type Archive struct {
	client *miniogo.Client
	bucket string
}

// NewArchive connects to the object store and creates the bucket when missing.
func NewArchive(ctx context.Context, cfg Config) (*Archive, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("minio endpoint and bucket are required")
	}
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, miniogo.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}
	return &Archive{client: client, bucket: cfg.Bucket}, nil
}

func (a *Archive) Store(ctx context.Context, msg domain.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = a.client.PutObject(ctx, a.bucket, ObjectKey(msg), bytes.NewReader(data), int64(len(data)), miniogo.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}

// ObjectKey returns mail/YYYY/MM/DD/<id>.json for the message send date.
func ObjectKey(msg domain.Message) string {
	sent := msg.SentAt.UTC()
	return path.Join("mail", sent.Format("2006"), sent.Format("01"), sent.Format("02"), msg.ID+".json")
}

var _ ports.Archive = (*Archive)(nil)
