package httpapi

import (
	"context"
	"dfss-dashboard/auth"
	"dfss-dashboard/domain"
	"dfss-dashboard/errors"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func sessionToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := &auth.Claims{
		UserID:           1,
		Role:             auth.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiresAt)},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) (*Client, string) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	token := sessionToken(t, time.Now().Add(time.Hour))
	client, err := NewClient(server.URL+"/", auth.NewTokenSource(token, 0), logs.GetLoggerFromLevel(slog.LevelDebug), opts...)
	require.NoError(t, err)
	return client, token
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func localFile(name, content string) domain.LocalFile {
	return domain.LocalFile{
		Name:        name,
		Size:        int64(len(content)),
		ContentType: "text/plain",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func TestClient_ListFiles(t *testing.T) {
	req := require.New(t)
	var authHeader, query string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /files", func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		query = r.URL.RawQuery
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "original_filename": "photo.JPG", "size": 2048, "upload_date": "2024-03-01 10:20:30", "username": "alice", "status": "pending"},
			{"id": 2, "original_filename": "cv.pdf", "size": 10, "upload_date": "2024-03-02T08:00:00Z"},
			{"id": 3, "original_filename": "", "size": 10},
			{"id": 4, "original_filename": "old.txt", "size": 1, "upload_date": "yesterday"},
		})
	})
	client, token := newTestClient(t, mux)

	// When listing the files
	records, err := client.ListFiles(context.Background())

	// Then the records are mapped and the nameless one is dropped
	req.NoError(err)
	req.Equal("Bearer "+token, authHeader)
	req.Empty(query)
	req.Len(records, 3)

	req.Equal(domain.FileRecord{
		ID:               "1",
		OriginalFilename: "photo.JPG",
		Size:             2048,
		UploadDate:       time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC),
		OwnerUsername:    "alice",
		Status:           domain.StatusPending,
	}, records[0])
	req.Equal(domain.StatusCompleted, records[1].Status)
	req.Equal(time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC), records[1].UploadDate)
	req.True(records[2].UploadDate.IsZero())
}

func TestClient_ListFilesAllOwners(t *testing.T) {
	req := require.New(t)
	var query string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /files", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		writeJSON(w, http.StatusOK, []any{})
	})
	client, _ := newTestClient(t, mux, WithAllOwners(true))

	records, err := client.ListFiles(context.Background())
	req.NoError(err)
	req.Empty(records)
	req.Equal("all=true", query)
}

func TestClient_ListFilesFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{"Unauthorized", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Authentication required!"})
		}, errors.ErrUnauthorized},
		{"Server error", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
		}, errors.ErrBadResponse},
		{"Not JSON", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>maintenance</html>"))
		}, errors.ErrBadResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.handler)
			_, err := client.ListFiles(context.Background())
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	token := sessionToken(t, time.Now().Add(time.Hour))
	client, err := NewClient(url, auth.NewTokenSource(token, 0), logs.GetLoggerFromLevel(slog.LevelDebug))
	req.NoError(err)

	_, err = client.ListFiles(context.Background())
	req.ErrorIs(err, errors.ErrUnreachable)
}

func TestClient_ExpiredTokenSkipsRoundTrip(t *testing.T) {
	req := require.New(t)
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	expired := auth.NewTokenSource(sessionToken(t, time.Now().Add(-time.Hour)), 0)
	client, err := NewClient(server.URL, expired, logs.GetLoggerFromLevel(slog.LevelDebug))
	req.NoError(err)

	_, err = client.ListFiles(context.Background())
	req.ErrorIs(err, errors.ErrUnauthorized)

	_, err = client.UploadFile(context.Background(), localFile("a.txt", "a"), nil)
	req.ErrorIs(err, errors.ErrUnauthorized)
	req.ErrorIs(err, errors.ErrTransferFailed)

	req.Zero(hits.Load())
}

func TestClient_DeleteFile(t *testing.T) {
	req := require.New(t)
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /files/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("id") {
		case "7":
			writeJSON(w, http.StatusOK, map[string]string{"message": "File deleted successfully"})
		case "8":
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "File not found"})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "db locked"})
		}
	})
	client, _ := newTestClient(t, mux)

	ok, err := client.DeleteFile(context.Background(), "7")
	req.NoError(err)
	req.True(ok)

	ok, err = client.DeleteFile(context.Background(), "8")
	req.NoError(err)
	req.False(ok)

	_, err = client.DeleteFile(context.Background(), "9")
	req.ErrorIs(err, errors.ErrBadResponse)
	req.ErrorContains(err, "db locked")
}

func TestClient_DownloadFile(t *testing.T) {
	req := require.New(t)
	var accept, authHeader string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /download/{id}", func(w http.ResponseWriter, r *http.Request) {
		accept, authHeader = r.Header.Get("Accept"), r.Header.Get("Authorization")
		switch r.PathValue("id") {
		case "7":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = io.WriteString(w, "hello replicas")
		case "8":
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "File not found"})
		case "9":
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "Access denied"})
		default:
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "No node available"})
		}
	})
	client, token := newTestClient(t, mux)

	// Given a file stored on the nodes
	var buf strings.Builder
	ok, err := client.DownloadFile(context.Background(), "7", &buf)

	// Then its content lands in the writer
	req.NoError(err)
	req.True(ok)
	req.Equal("hello replicas", buf.String())
	req.Equal("*/*", accept)
	req.Equal("Bearer "+token, authHeader)

	// Unknown and foreign files are refused without an error
	for _, id := range []domain.FileID{"8", "9"} {
		buf.Reset()
		ok, err = client.DownloadFile(context.Background(), id, &buf)
		req.NoError(err)
		req.False(ok)
		req.Empty(buf.String())
	}

	_, err = client.DownloadFile(context.Background(), "10", &buf)
	req.ErrorIs(err, errors.ErrBadResponse)
	req.ErrorContains(err, "No node available")
}

func TestClient_UploadFile(t *testing.T) {
	req := require.New(t)
	var gotName, gotContent, gotType string
	var gotLength int64
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		gotLength = r.ContentLength
		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "No file part in the request"})
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		gotName, gotContent, gotType = header.Filename, string(content), header.Header.Get("Content-Type")
		writeJSON(w, http.StatusCreated, map[string]any{"message": "File uploaded successfully", "file_id": 42, "replicas": 3})
	})
	mux.HandleFunc("GET /files/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id": 42, "original_filename": "notes.txt", "size": 11, "upload_date": "2024-05-01 12:00:00", "username": "alice",
		})
	})
	client, _ := newTestClient(t, mux)

	var loaded []int64
	var total int64
	record, err := client.UploadFile(context.Background(), localFile("notes.txt", "hello world"), func(l, t int64) {
		loaded = append(loaded, l)
		total = t
	})

	req.NoError(err)
	req.Equal(domain.FileID("42"), record.ID)
	req.Equal("alice", record.OwnerUsername)
	req.Equal("notes.txt", gotName)
	req.Equal("hello world", gotContent)
	req.Equal("text/plain", gotType)

	// Progress covers the whole multipart body
	req.NotEmpty(loaded)
	req.Equal(gotLength, total)
	req.Equal(total, loaded[len(loaded)-1])
	req.IsIncreasing(loaded)
}

func TestClient_UploadFileFailure(t *testing.T) {
	req := require.New(t)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "File too large. Maximum size: 100.00 MB"})
	})
	client, _ := newTestClient(t, mux)

	_, err := client.Send(context.Background(), localFile("big.iso", "data"), nil)

	req.ErrorIs(err, errors.ErrTransferFailed)
	req.ErrorIs(err, errors.ErrBadResponse)
	req.Equal("File too large. Maximum size: 100.00 MB", errors.Message(err))
}

func TestClient_UploadFileUnreadable(t *testing.T) {
	req := require.New(t)
	client, _ := newTestClient(t, http.NotFoundHandler())
	file := localFile("gone.txt", "x")
	file.Open = func() (io.ReadCloser, error) { return nil, io.ErrUnexpectedEOF }

	_, err := client.UploadFile(context.Background(), file, nil)
	req.ErrorIs(err, errors.ErrTransferFailed)
	req.ErrorIs(err, io.ErrUnexpectedEOF)
	req.Equal("cannot read gone.txt", errors.Message(err))
}

func TestClient_UploadFallsBackToLocalMetadata(t *testing.T) {
	req := require.New(t)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		writeJSON(w, http.StatusCreated, map[string]any{"file_id": 5, "replicas": 2})
	})
	mux.HandleFunc("GET /files/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Access denied"})
	})
	client, _ := newTestClient(t, mux)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	record, err := client.UploadFile(context.Background(), localFile("a.txt", "abc"), nil)
	req.NoError(err)
	req.Equal(domain.FileRecord{
		ID:               "5",
		OriginalFilename: "a.txt",
		Size:             3,
		UploadDate:       now,
		Status:           domain.StatusCompleted,
	}, record)
}

func TestNewClient_InvalidURL(t *testing.T) {
	req := require.New(t)
	tokens := auth.NewTokenSource("", 0)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	for _, raw := range []string{"", "localhost:5001", "ftp://host", "http://"} {
		_, err := NewClient(raw, tokens, log)
		req.ErrorIs(err, errors.ErrInvalidConfig, raw)
	}
}

func TestParseUploadDate(t *testing.T) {
	req := require.New(t)
	want := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	req.Equal(want, parseUploadDate("2024-01-02 03:04:05"))
	req.Equal(want, parseUploadDate("2024-01-02T03:04:05"))
	req.Equal(want, parseUploadDate("2024-01-02T04:04:05+01:00"))
	req.Equal(want, parseUploadDate("Tue, 02 Jan 2024 03:04:05 UTC"))
	req.True(parseUploadDate("").IsZero())
	req.True(parseUploadDate("soon").IsZero())
}
