package services

import (
	"context"
	"dfss-dashboard/catalog"
	"dfss-dashboard/contract"
	"dfss-dashboard/domain"
	"dfss-dashboard/upload"
	"fmt"
	"io"
	"log/slog"
)

type IDashboardService interface {
	Load(ctx context.Context) (catalog.Page, error)
	Delete(ctx context.Context, id domain.FileID) (bool, error)
	Download(ctx context.Context, id domain.FileID, w io.Writer) (bool, error)
	Record(id domain.FileID) (domain.FileRecord, bool)
	Select(files ...domain.LocalFile) []domain.UploadTask
	Upload(ctx context.Context, onTask upload.TaskFunc) (domain.QueueStatus, error)
	Summary() catalog.Summary
	Catalog() *catalog.Catalog
	Queue() *upload.Queue
}

// DashboardService is the session behind one dashboard page: the records
// fetched from the API, the view over them and the upload selection.
type DashboardService struct {
	client  contract.APIClient
	store   *catalog.Store
	catalog *catalog.Catalog
	queue   *upload.Queue
	log     *slog.Logger
}

func NewDashboardService(client contract.APIClient, opts catalog.Options, pageSize int,
	policy domain.FailurePolicy, log *slog.Logger) *DashboardService {
	store := catalog.NewStore()
	return &DashboardService{
		client:  client,
		store:   store,
		catalog: catalog.New(store, opts, pageSize, log),
		queue:   upload.NewQueue(store, log, upload.WithFailurePolicy(policy)),
		log:     log,
	}
}

// Load replaces the records with the API's list. On failure the records
// already shown stay in place.
func (s *DashboardService) Load(ctx context.Context) (catalog.Page, error) {
	records, err := s.client.ListFiles(ctx)
	if err != nil {
		s.log.Error("Loading files failed", "error", err)
		return s.catalog.View(), fmt.Errorf("load files: %w", err)
	}
	s.store.Replace(records)
	s.log.Info("Files loaded", "count", len(records))
	return s.catalog.Refresh(), nil
}

func (s *DashboardService) Delete(ctx context.Context, id domain.FileID) (bool, error) {
	deleted, err := s.client.DeleteFile(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete file %s: %w", id, err)
	}
	if deleted {
		s.store.Remove(id)
		s.catalog.Refresh()
	}
	return deleted, nil
}

func (s *DashboardService) Download(ctx context.Context, id domain.FileID, w io.Writer) (bool, error) {
	found, err := s.client.DownloadFile(ctx, id, w)
	if err != nil {
		return false, fmt.Errorf("download file %s: %w", id, err)
	}
	return found, nil
}

// Record looks a file up among the loaded records.
func (s *DashboardService) Record(id domain.FileID) (domain.FileRecord, bool) {
	return s.store.Get(id)
}

func (s *DashboardService) Select(files ...domain.LocalFile) []domain.UploadTask {
	return s.queue.AddFiles(files...)
}

// Upload sends the selection. Each uploaded record joins the catalog; a batch
// that completed entirely empties the selection.
func (s *DashboardService) Upload(ctx context.Context, onTask upload.TaskFunc) (domain.QueueStatus, error) {
	status, err := s.queue.Run(ctx, contract.UploadTransport(s.client), onTask, func(status domain.QueueStatus) {
		s.log.Debug("Upload queue status", "status", status)
	})
	s.catalog.Refresh()

	if status == domain.QueueCompleted {
		if clearErr := s.queue.Clear(); clearErr != nil {
			s.log.Warn("Upload selection not cleared", "error", clearErr)
		}
	}
	return status, err
}

func (s *DashboardService) Summary() catalog.Summary {
	return catalog.Summarize(s.store.Snapshot(), s.catalog.Options().Taxonomy)
}

func (s *DashboardService) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *DashboardService) Queue() *upload.Queue {
	return s.queue
}
