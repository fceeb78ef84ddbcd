package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"path"
	"strings"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// InlineSignatureStore keeps the image on the proposal itself as a data URL.
type InlineSignatureStore struct{}

var _ interfaces.ISignatureImageStore = InlineSignatureStore{}

func (InlineSignatureStore) Put(ctx context.Context, proposalID string, img entities.SignatureImage) (string, error) {
	return "data:" + img.ContentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data), nil
}

// Delete is a no-op: an inline image lives only on the proposal.
func (InlineSignatureStore) Delete(ctx context.Context, ref string) error {
	return nil
}

// S3ObjectAPI is the subset of *s3.Client the store needs.
type S3ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3SignatureStore writes each image under signatures/<proposal id>/ and
// returns an s3:// reference.
type S3SignatureStore struct {
	client S3ObjectAPI
	bucket string
}

var _ interfaces.ISignatureImageStore = (*S3SignatureStore)(nil)

func NewS3Client(awsCfg aws.Config, endpoint string) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
}

func NewS3SignatureStore(client S3ObjectAPI, bucket string) *S3SignatureStore {
	return &S3SignatureStore{client: client, bucket: bucket}
}

func (s *S3SignatureStore) Put(ctx context.Context, proposalID string, img entities.SignatureImage) (string, error) {
	key := path.Join("signatures", proposalID, uuid.NewString()+extension(img.ContentType))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(img.Data),
		ContentType:   aws.String(img.ContentType),
		ContentLength: aws.Int64(int64(len(img.Data))),
		Metadata:      map[string]string{"proposal-id": proposalID},
	})
	if err != nil {
		return "", fmt.Errorf("put signature image: %w", err)
	}
	log.Printf("[storage][s3] signature stored proposal_id=%s key=%s size=%d", proposalID, key, len(img.Data))
	return "s3://" + s.bucket + "/" + key, nil
}

// Delete removes the object behind a reference returned by Put.
func (s *S3SignatureStore) Delete(ctx context.Context, ref string) error {
	key, ok := strings.CutPrefix(ref, "s3://"+s.bucket+"/")
	if !ok || key == "" {
		return fmt.Errorf("delete signature image: %q is not in bucket %s", ref, s.bucket)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete signature image: %w", err)
	}
	log.Printf("[storage][s3] signature deleted key=%s", key)
	return nil
}

func extension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	}
	return ""
}
