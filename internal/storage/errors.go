package storage

import (
	"errors"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
)

// IsNoSuchKey 判断错误是否表示对象不存在（S3/MinIO: NoSuchKey/NotFound，或 HEAD 请求的裸 404）。
func IsNoSuchKey(err error) bool {
	if err == nil {
		return false
	}

	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) {
		switch strings.ToLower(strings.TrimSpace(minioErr.Code)) {
		case "nosuchkey", "notfound":
			return true
		case "":
			if minioErr.StatusCode == http.StatusNotFound {
				return true
			}
		}
	}

	// 兜底：不同网关/代理可能会把错误包装成字符串。
	return containsAny(err, "nosuchkey", "specified key does not exist", "not found")
}

// IsNoSuchBucket 判断错误是否表示 Bucket 不存在。
func IsNoSuchBucket(err error) bool {
	if err == nil {
		return false
	}

	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) && strings.EqualFold(strings.TrimSpace(minioErr.Code), "nosuchbucket") {
		return true
	}

	return containsAny(err, "nosuchbucket", "specified bucket does not exist")
}

func containsAny(err error, fragments ...string) bool {
	lower := strings.ToLower(err.Error())
	for _, f := range fragments {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}
