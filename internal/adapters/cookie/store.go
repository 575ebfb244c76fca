package cookie

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/larriantoniy/alexa_ctl/internal/domain"
	"github.com/larriantoniy/alexa_ctl/internal/ports"
)

// FileStore читает выгрузку cookie браузера (JSON-массив {name, value}).
// Файл перезаписывается снаружи, поэтому ничего не кешируем.
type FileStore struct {
	paths  []string // основной путь, затем запасной
	logger *slog.Logger
}

func NewFileStore(primary, fallback string, logger *slog.Logger) *FileStore {
	paths := make([]string, 0, 2)
	for _, p := range []string{primary, fallback} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return &FileStore{paths: paths, logger: logger}
}

func (s *FileStore) Load() (*domain.Session, error) {
	path, err := s.locate()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrSessionCorrupt, path, err)
	}

	var cookies []domain.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("%w: unmarshal %s: %w", domain.ErrSessionCorrupt, path, err)
	}
	// "null" тоже валидный JSON, но не массив
	if cookies == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionCorrupt, path)
	}
	for i, c := range cookies {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: %s: entry %d has no name", domain.ErrSessionCorrupt, path, i)
		}
	}

	return &domain.Session{Cookies: cookies}, nil
}

func (s *FileStore) locate() (string, error) {
	for i, p := range s.paths {
		info, err := os.Stat(p)
		if err == nil && !info.IsDir() {
			return p, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: stat %s: %w", domain.ErrSessionCorrupt, p, err)
		}
		if i+1 < len(s.paths) {
			s.logger.Info("cookie not found, trying fallback", "path", p, "fallback", s.paths[i+1])
		}
	}
	return "", fmt.Errorf("%w: tried %v", domain.ErrSessionNotFound, s.paths)
}

var _ ports.SessionStore = (*FileStore)(nil)
