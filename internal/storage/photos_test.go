package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/desire-match/internal/config"
	svcErr "github.com/oggyb/desire-match/internal/errors"
)

func TestUploadURL_Presigns(t *testing.T) {
	awsCfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
	}
	store := NewPhotoStoreFromConfig(awsCfg, "photos", "http://localhost:9000", time.Minute)
	require.True(t, store.Enabled())

	url, key, err := store.UploadURL(context.Background(), 7, "Me.JPG", "image/jpeg")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "profile-pics/7/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/photos/"+key))
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=60")
}

func TestUploadURL_Unconfigured(t *testing.T) {
	store, err := NewPhotoStore(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.False(t, store.Enabled())

	_, _, err = store.UploadURL(context.Background(), 1, "a.png", "image/png")
	assert.True(t, svcErr.HasCode(err, svcErr.CodeUnavailable))
}
