package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"slices"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrFileTooLarge        = errors.New("file too large")
	ErrFileNameTooLong     = errors.New("file name is too long")
	ErrFileTypeUnsupported = errors.New("unsupported file type")
	ErrNoFile              = errors.New("please upload a file")
)

const maxFileNameSize = 255

// ImageOpts are the limits an upload is checked against
type ImageOpts struct {
	MaxSize      int64
	AllowedTypes []string
}

// ImageValidator checks the multipart header first, which is cheap but easy
// to spoof, and then sniffs the actual content. On success the returned
// file is rewound and the detected MIME type returned.
func ImageValidator(fh *multipart.FileHeader, o ImageOpts) (int, multipart.File, string, error) {
	if fh == nil {
		return http.StatusBadRequest, nil, "", ErrNoFile
	}

	if len(fh.Filename) > maxFileNameSize {
		return http.StatusBadRequest, nil, "", ErrFileNameTooLong
	}

	if o.MaxSize > 0 && fh.Size > o.MaxSize {
		return http.StatusRequestEntityTooLarge, nil, "", ErrFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, nil, "", err
	}

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, "", err
	}

	if !allowed(mime, o.AllowedTypes) {
		f.Close()
		return http.StatusBadRequest, nil, "", ErrFileTypeUnsupported
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, "", err
	}

	return 0, f, mime.String(), nil
}

func allowed(m *mimetype.MIME, types []string) bool {
	if len(types) == 0 {
		return m.Is("image/jpeg") || m.Is("image/png") || m.Is("image/gif") || m.Is("image/webp")
	}

	return slices.ContainsFunc(types, m.Is)
}
