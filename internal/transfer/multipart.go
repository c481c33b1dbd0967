package transfer

import (
	"fmt"
	"io"
	"mime/multipart"
	"sync/atomic"

	"github.com/ytget/batch-uploader/internal/model"
)

// progressReader counts bytes as the transport pulls the request body
type progressReader struct {
	r          io.Reader
	sent       atomic.Int64
	total      int64
	onProgress ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		sent := p.sent.Add(int64(n))
		if p.onProgress != nil {
			p.onProgress(sent, p.total)
		}
	}
	return n, err
}

// countingWriter discards writes and remembers their length
type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(b []byte) (int, error) {
	w.n += int64(len(b))
	return len(b), nil
}

// multipartLength returns the exact encoded body length for files, or false
// when any file size is unknown. Part headers are rendered for real so the
// result matches what writeMultipart produces with the same boundary.
func multipartLength(boundary, field string, files []model.SelectedFile) (int64, bool) {
	cw := &countingWriter{}
	mw := multipart.NewWriter(cw)
	if err := mw.SetBoundary(boundary); err != nil {
		return 0, false
	}

	for _, f := range files {
		if !f.HasKnownSize() {
			return 0, false
		}
		if _, err := mw.CreateFormFile(field, f.Name); err != nil {
			return 0, false
		}
		cw.n += f.Size
	}
	if err := mw.Close(); err != nil {
		return 0, false
	}
	return cw.n, true
}

// writeMultipart encodes every file as a form-file part under field
func writeMultipart(w io.Writer, boundary, field string, files []model.SelectedFile) error {
	mw := multipart.NewWriter(w)
	if err := mw.SetBoundary(boundary); err != nil {
		return err
	}

	for _, f := range files {
		part, err := mw.CreateFormFile(field, f.Name)
		if err != nil {
			return fmt.Errorf("failed to create part for %s: %w", f.Name, err)
		}
		if err := copyFile(part, f); err != nil {
			return err
		}
	}
	return mw.Close()
}

func copyFile(dst io.Writer, f model.SelectedFile) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	n, err := io.Copy(dst, rc)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	if f.HasKnownSize() && n != f.Size {
		return fmt.Errorf("%s changed size during upload: expected %d bytes, read %d", f.Name, f.Size, n)
	}
	return nil
}
