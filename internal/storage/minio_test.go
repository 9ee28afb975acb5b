package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	objects  map[string][]byte
	statErr  error
	getCalls int
}

func (f *fakeGetter) StatObject(_ context.Context, _, objectName string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	if f.statErr != nil {
		return minio.ObjectInfo{}, f.statErr
	}
	if _, ok := f.objects[objectName]; !ok {
		return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}
	}
	return minio.ObjectInfo{Key: objectName}, nil
}

func (f *fakeGetter) FGetObject(_ context.Context, _, objectName, filePath string, _ minio.GetObjectOptions) error {
	f.getCalls++
	return os.WriteFile(filePath, f.objects[objectName], 0o600)
}

func TestFetchResumeDownloadsAndCaches(t *testing.T) {
	dir := t.TempDir()
	getter := &fakeGetter{objects: map[string][]byte{"r/1.pdf": []byte("%PDF")}}
	client := newClient(getter, "resumes", dir, nil)

	path, found, err := client.FetchResume(context.Background(), "r/1.pdf")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, filepath.Join(dir, "r", "1.pdf"), path)

	_, found, err = client.FetchResume(context.Background(), "r/1.pdf")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 1, getter.getCalls)
}

func TestFetchResumeMissingObjectIsNotAnError(t *testing.T) {
	client := newClient(&fakeGetter{objects: map[string][]byte{}}, "resumes", t.TempDir(), nil)

	path, found, err := client.FetchResume(context.Background(), "r/404.pdf")
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, path)
}

func TestFetchResumeMissingBucketIsNotAnError(t *testing.T) {
	getter := &fakeGetter{statErr: minio.ErrorResponse{Code: "NoSuchBucket"}}
	client := newClient(getter, "resumes", t.TempDir(), nil)

	_, found, err := client.FetchResume(context.Background(), "r/1.pdf")
	require.NoError(t, err)
	require.False(t, found)
}

func TestFetchResumeTransportError(t *testing.T) {
	getter := &fakeGetter{statErr: errors.New("connection refused")}
	client := newClient(getter, "resumes", t.TempDir(), nil)

	_, found, err := client.FetchResume(context.Background(), "r/1.pdf")
	require.Error(t, err)
	require.False(t, found)
}

func TestFetchResumeRejectsTraversal(t *testing.T) {
	client := newClient(&fakeGetter{}, "resumes", t.TempDir(), nil)

	_, _, err := client.FetchResume(context.Background(), "../etc/passwd")
	require.ErrorIs(t, err, errUnsafeObjectPath)
}
