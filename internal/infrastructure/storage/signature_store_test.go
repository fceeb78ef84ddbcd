package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"propostas_service/internal/domain/entities"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlineSignatureStore_Put(t *testing.T) {
	ref, err := InlineSignatureStore{}.Put(context.Background(), "p-1", entities.SignatureImage{ContentType: "image/png", Data: []byte("abc")})
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,YWJj", ref)
	assert.NoError(t, InlineSignatureStore{}.Delete(context.Background(), ref))
}

type fakeS3 struct {
	input   *s3.PutObjectInput
	body    []byte
	deleted []string
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3SignatureStore_Put(t *testing.T) {
	fake := &fakeS3{}
	store := NewS3SignatureStore(fake, "signatures-bucket")

	ref, err := store.Put(context.Background(), "p-1", entities.SignatureImage{ContentType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}})
	require.NoError(t, err)

	key := aws.ToString(fake.input.Key)
	assert.True(t, strings.HasPrefix(key, "signatures/p-1/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.Equal(t, "s3://signatures-bucket/"+key, ref)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, fake.body)
	assert.Equal(t, "image/jpeg", aws.ToString(fake.input.ContentType))
}

func TestS3SignatureStore_Delete(t *testing.T) {
	fake := &fakeS3{}
	store := NewS3SignatureStore(fake, "signatures-bucket")

	ref, err := store.Put(context.Background(), "p-1", entities.SignatureImage{ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}})
	require.NoError(t, err)
	require.NoError(t, store.Delete(context.Background(), ref))
	assert.Equal(t, []string{"signatures-bucket/" + aws.ToString(fake.input.Key)}, fake.deleted)

	assert.Error(t, store.Delete(context.Background(), "s3://other-bucket/signatures/p-1/x.png"))
	assert.Len(t, fake.deleted, 1)
}
