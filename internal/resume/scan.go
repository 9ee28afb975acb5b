package resume

import (
	"fmt"
	"os"
	"strings"

	"github.com/dutchcoders/go-clamd"

	"jobbyResume/internal/errcode"
)

// Scanner 在解析前检查文件是否安全。
type Scanner interface {
	ScanFile(path string) error
}

// ClamdScanner 通过 clamd 的 INSTREAM 扫描本地文件。
type ClamdScanner struct {
	addr string
}

// NewScanner 在地址为空时返回 NopScanner。
func NewScanner(addr string) Scanner {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return NopScanner{}
	}
	return &ClamdScanner{addr: addr}
}

func (s *ClamdScanner) ScanFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open resume for scan: %w", err)
	}
	defer file.Close()

	client := clamd.NewClamd(s.addr)
	abortChan := make(chan bool)
	defer close(abortChan)

	scanChan, err := client.ScanStream(file, abortChan)
	if err != nil {
		return fmt.Errorf("scan resume: %w", err)
	}

	for result := range scanChan {
		if result.Status != clamd.RES_OK {
			return errcode.New(errcode.KindMaliciousFile, fmt.Sprintf("malicious file detected: %s", result.Description))
		}
	}
	return nil
}

// NopScanner 不做任何检查。
type NopScanner struct{}

func (NopScanner) ScanFile(string) error { return nil }
