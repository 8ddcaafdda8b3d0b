package httpapi

import (
	"bytes"
	"context"
	"dfss-dashboard/contract"
	"dfss-dashboard/domain"
	"dfss-dashboard/domain/mimetypes"
	"dfss-dashboard/errors"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

const formField = "file"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Send makes the client usable as the upload queue's transport.
func (c *Client) Send(ctx context.Context, file domain.LocalFile, onProgress contract.ProgressFunc) (domain.FileRecord, error) {
	return c.UploadFile(ctx, file, onProgress)
}

// UploadFile posts one file as multipart/form-data and returns the record the
// API created for it. Every failure is an *errors.TransferError.
func (c *Client) UploadFile(ctx context.Context, file domain.LocalFile, onProgress contract.ProgressFunc) (domain.FileRecord, error) {
	if file.Open == nil {
		return domain.FileRecord{}, errors.NewTransferError("no content for "+file.Name, nil)
	}
	content, err := file.Open()
	if err != nil {
		return domain.FileRecord{}, errors.NewTransferError("cannot read "+file.Name, err)
	}
	defer content.Close()

	prefix, suffix, contentType, err := envelope(file)
	if err != nil {
		return domain.FileRecord{}, errors.NewTransferError("", err)
	}
	total := int64(len(prefix)) + file.Size + int64(len(suffix))
	body := &progressReader{
		r:          io.MultiReader(bytes.NewReader(prefix), content, bytes.NewReader(suffix)),
		total:      total,
		onProgress: onProgress,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", body)
	if err != nil {
		return domain.FileRecord{}, errors.NewTransferError("", err)
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", contentType)

	resp, err := c.do(req)
	if err != nil {
		return domain.FileRecord{}, errors.NewTransferError("", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		message := apiMessage(resp)
		return domain.FileRecord{}, errors.NewTransferError(message,
			fmt.Errorf("upload returned %d: %w", resp.StatusCode, errors.ErrBadResponse))
	}

	var uploaded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return domain.FileRecord{}, errors.NewTransferError("",
			fmt.Errorf("decode upload response: %w: %w", errors.ErrBadResponse, err))
	}
	c.log.Info("File uploaded", "file", file.Name, "file_id", uploaded.FileID, "replicas", uploaded.Replicas)

	record, err := c.GetFile(ctx, uploaded.fileID())
	if err != nil {
		c.log.Warn("Uploaded file could not be fetched, using local metadata", "file_id", uploaded.FileID, "error", err)
		record = domain.FileRecord{
			ID:               uploaded.fileID(),
			OriginalFilename: file.Name,
			Size:             file.Size,
			UploadDate:       c.now().UTC(),
			Status:           domain.StatusCompleted,
		}
	}
	return record, nil
}

// envelope renders the multipart framing around the file content, so the body
// can be streamed with a known length.
func envelope(file domain.LocalFile) (prefix, suffix []byte, contentType string, err error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, formField, quoteEscaper.Replace(file.Name)))
	header.Set("Content-Type", string(partContentType(file.ContentType)))
	if _, err := mw.CreatePart(header); err != nil {
		return nil, nil, "", fmt.Errorf("write multipart header: %w", err)
	}
	prefix = bytes.Clone(buf.Bytes())
	buf.Reset()

	if err := mw.Close(); err != nil {
		return nil, nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return prefix, bytes.Clone(buf.Bytes()), mw.FormDataContentType(), nil
}

func partContentType(contentType string) mimetypes.MIME {
	if contentType == "" {
		return mimetypes.Unknown
	}
	return mimetypes.MIME(contentType)
}

type progressReader struct {
	r          io.Reader
	loaded     int64
	total      int64
	onProgress contract.ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.loaded += int64(n)
		if p.onProgress != nil {
			p.onProgress(p.loaded, p.total)
		}
	}
	return n, err
}
