package archive

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/smartnlp/internal/config"
	"github.com/iudanet/smartnlp/internal/models"
)

type fakePutter struct {
	err    error
	inputs []*s3.PutObjectInput
	bodies [][]byte
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, data)
	return &s3.PutObjectOutput{}, nil
}

func TestNew_Disabled(t *testing.T) {
	a, err := New(context.Background(), config.S3{})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, a)

	key, err := a.Put(context.Background(), "u1", models.KindTextToSpeech, []byte("audio"), "audio/mpeg")
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestNew_Enabled(t *testing.T) {
	var applied s3.Options

	orig := newS3ClientFromConfig
	t.Cleanup(func() { newS3ClientFromConfig = orig })
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		assert.Equal(t, "eu-central-1", cfg.Region)
		for _, fn := range optFns {
			fn(&applied)
		}
		return &fakePutter{}
	}

	a, err := New(context.Background(), config.S3{
		Bucket:    "audio",
		Region:    "eu-central-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)

	s3a, ok := a.(*S3Archive)
	require.True(t, ok)
	assert.Equal(t, "audio", s3a.bucket)
	require.NotNil(t, applied.BaseEndpoint)
	assert.Equal(t, "http://localhost:9000", *applied.BaseEndpoint)
	assert.True(t, applied.UsePathStyle)
}

func TestS3Archive_Put(t *testing.T) {
	putter := &fakePutter{}
	a := &S3Archive{
		client: putter,
		bucket: "audio",
		now:    func() time.Time { return time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC) },
	}

	key, err := a.Put(context.Background(), "user-1", models.KindSpeechToText, []byte("RIFF"), "audio/wav")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "speech-to-text/user-1/2025/03/04/"), key)
	require.Len(t, putter.inputs, 1)
	assert.Equal(t, "audio", aws.ToString(putter.inputs[0].Bucket))
	assert.Equal(t, key, aws.ToString(putter.inputs[0].Key))
	assert.Equal(t, "audio/wav", aws.ToString(putter.inputs[0].ContentType))
	assert.Equal(t, int64(4), aws.ToInt64(putter.inputs[0].ContentLength))
	assert.Equal(t, []byte("RIFF"), putter.bodies[0])
}

func TestS3Archive_Put_Anonymous(t *testing.T) {
	putter := &fakePutter{}
	a := &S3Archive{client: putter, bucket: "audio", now: time.Now}

	key, err := a.Put(context.Background(), "", models.KindTextToSpeech, []byte("ID3"), "")
	require.NoError(t, err)
	assert.Contains(t, key, "text-to-speech/anonymous/")
	assert.Nil(t, putter.inputs[0].ContentType)
}

func TestS3Archive_Put_EmptyAudio(t *testing.T) {
	putter := &fakePutter{}
	a := &S3Archive{client: putter, bucket: "audio", now: time.Now}

	key, err := a.Put(context.Background(), "u", models.KindTextToSpeech, nil, "audio/mpeg")
	require.NoError(t, err)
	assert.Empty(t, key)
	assert.Empty(t, putter.inputs)
}

func TestS3Archive_Put_Error(t *testing.T) {
	a := &S3Archive{client: &fakePutter{err: errors.New("access denied")}, bucket: "audio", now: time.Now}

	key, err := a.Put(context.Background(), "u", models.KindTextToSpeech, []byte("ID3"), "audio/mpeg")
	require.Error(t, err)
	assert.Empty(t, key)
	assert.Contains(t, err.Error(), "access denied")
}
