package localfs

import (
	"dfss-dashboard/domain"
	"dfss-dashboard/domain/mimetypes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FromPath describes a file on disk as an upload candidate. The content is
// opened lazily, when the transport starts sending it.
func FromPath(path string) (domain.LocalFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.LocalFile{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return domain.LocalFile{}, fmt.Errorf("%s is not a regular file", path)
	}

	contentType := mimetypes.Unknown
	if info.Size() > 0 {
		if contentType, err = mimetypes.DetectFile(path); err != nil {
			return domain.LocalFile{}, fmt.Errorf("detect content type of %s: %w", path, err)
		}
	}

	return domain.LocalFile{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: string(contentType),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// FromPaths keeps the order of paths. It stops at the first unreadable path.
func FromPaths(paths ...string) ([]domain.LocalFile, error) {
	files := make([]domain.LocalFile, 0, len(paths))
	for _, path := range paths {
		file, err := FromPath(path)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}
