package pdf

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// AES key length used when encrypting Chrome output.
const aesKeyLength = 256

var pdfcpuOnce sync.Once

// pdfcpuConfig returns a default configuration without touching the user's
// pdfcpu config directory.
func pdfcpuConfig() *model.Configuration {
	pdfcpuOnce.Do(api.DisableConfigDir)
	return model.NewDefaultConfiguration()
}

// PageCount returns the number of pages in an unencrypted PDF.
func PageCount(path string) (int, error) {
	f, err := os.Open(path) // #nosec G304 -- path produced by this package
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	n, err := api.PageCount(f, pdfcpuConfig())
	if err != nil {
		return 0, fmt.Errorf("reading PDF: %w", err)
	}
	return n, nil
}

// verifyPDF checks that path parses as a PDF with at least one page.
func verifyPDF(path string) error {
	n, err := PageCount(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	if n == 0 {
		return ErrEmptyOutput
	}
	return nil
}

// trimPages keeps only the slides selected by spec, in place.
func trimPages(path, spec string) error {
	total, err := PageCount(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	pages, err := SelectPages(spec, total)
	if err != nil {
		return err
	}
	if len(pages) == total {
		return nil
	}

	selection := make([]string, len(pages))
	for i, p := range pages {
		selection[i] = strconv.Itoa(p)
	}
	return rewrite(path, func(out string) error {
		return api.TrimFile(path, out, selection, pdfcpuConfig())
	})
}

// encryptPDF protects path with password (user and owner), in place.
func encryptPDF(path, password string) error {
	pdfcpuOnce.Do(api.DisableConfigDir)
	conf := model.NewAESConfiguration(password, password, aesKeyLength)
	return rewrite(path, func(out string) error {
		return api.EncryptFile(path, out, conf)
	})
}

// rewrite runs op into a sibling file and replaces path with it.
func rewrite(path string, op func(out string) error) error {
	out := path + ".tmp"
	if err := op(out); err != nil {
		_ = os.Remove(out)
		return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	if err := os.Rename(out, path); err != nil {
		_ = os.Remove(out)
		return fmt.Errorf("replacing PDF: %w", err)
	}
	return nil
}
