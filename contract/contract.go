//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"dfss-dashboard/domain"
	"io"
)

// ProgressFunc receives the number of bytes already sent out of total.
// total may be zero when the size is not known yet. Transports that only know
// a fraction p report it as (p*100, 100).
type ProgressFunc func(loaded, total int64)

// Transport performs one file transfer. It has no cancellation hook besides ctx.
type Transport interface {
	Send(ctx context.Context, file domain.LocalFile, onProgress ProgressFunc) (domain.FileRecord, error)
}

// APIClient is the capability the host application provides to the dashboards.
// Failures are errors.ErrUnreachable, errors.ErrUnauthorized, errors.ErrBadResponse
// and, for uploads, errors.ErrTransferFailed.
type APIClient interface {
	ListFiles(ctx context.Context) ([]domain.FileRecord, error)
	DeleteFile(ctx context.Context, id domain.FileID) (bool, error)
	DownloadFile(ctx context.Context, id domain.FileID, w io.Writer) (bool, error)
	UploadFile(ctx context.Context, file domain.LocalFile, onProgress ProgressFunc) (domain.FileRecord, error)
}

// RecordSink receives the records produced by completed uploads.
type RecordSink interface {
	Append(record domain.FileRecord)
}

// TransportFunc adapts an upload function to the Transport interface.
type TransportFunc func(ctx context.Context, file domain.LocalFile, onProgress ProgressFunc) (domain.FileRecord, error)

func (f TransportFunc) Send(ctx context.Context, file domain.LocalFile, onProgress ProgressFunc) (domain.FileRecord, error) {
	return f(ctx, file, onProgress)
}

// UploadTransport exposes the upload operation of an APIClient as a Transport.
func UploadTransport(client APIClient) Transport {
	return TransportFunc(client.UploadFile)
}
