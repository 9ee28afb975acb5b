package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
)

func TestIsNoSuchKey(t *testing.T) {
	require.False(t, IsNoSuchKey(nil))
	require.True(t, IsNoSuchKey(minio.ErrorResponse{Code: "NoSuchKey"}))
	require.True(t, IsNoSuchKey(fmt.Errorf("stat: %w", minio.ErrorResponse{Code: "NotFound"})))
	require.True(t, IsNoSuchKey(minio.ErrorResponse{StatusCode: 404}))
	require.True(t, IsNoSuchKey(errors.New("proxy: The specified key does not exist")))
	require.False(t, IsNoSuchKey(errors.New("connection reset by peer")))
}

func TestIsNoSuchBucket(t *testing.T) {
	require.True(t, IsNoSuchBucket(minio.ErrorResponse{Code: "NoSuchBucket"}))
	require.False(t, IsNoSuchBucket(minio.ErrorResponse{Code: "NoSuchKey", Message: "missing key"}))
}
