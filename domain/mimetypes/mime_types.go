package mimetypes

import (
	"mime"

	"github.com/gabriel-vasile/mimetype"
)

type MIME string

const (
	Unknown        MIME = "application/octet-stream"
	TextPlain      MIME = "text/plain"
	ApplicationPDF MIME = "application/pdf"
	ImagePNG       MIME = "image/png"
)

// Parse strips the parameters of a detected media type.
func Parse(detected string) MIME {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown
	}
	return MIME(mt)
}

// DetectFile sniffs the content type of a file on disk.
func DetectFile(path string) (MIME, error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return Unknown, err
	}
	return Parse(m.String()), nil
}
