package resume

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"

	"jobbyResume/internal/errcode"
)

var convertible = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".rtf":  true,
	".odt":  true,
}

// ExtractText 读取本地简历文件并返回纯文本。不支持的扩展名直接失败。
func ExtractText(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errcode.Invalid("resume file path is empty")
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".txt":
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read text resume: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	case convertible[ext]:
		res, err := docconv.ConvertPath(path)
		if err != nil {
			return "", fmt.Errorf("convert %s resume: %w", ext, err)
		}
		return strings.TrimSpace(res.Body), nil
	default:
		return "", errcode.New(errcode.KindUnsupportedFile, fmt.Sprintf("unsupported file type: %s", ext))
	}
}
