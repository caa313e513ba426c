// pkg/filestorage/local_filestorage.go

package filestorage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PublicPrefix - URL-префикс, под которым echo раздает basePath.
const PublicPrefix = "/uploads/"

type FileStorageInterface interface {
	// Save сохраняет файл и возвращает публичный URL вида /uploads/<prefix>/2026/01/02/<uuid>.jpg.
	Save(file io.Reader, originalFileName string, prefix string) (fileURL string, err error)
	Delete(fileURL string) error
}

type LocalFileStorage struct {
	basePath string
	now      func() time.Time
}

func NewLocalFileStorage(basePath string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию: %w", err)
	}
	return &LocalFileStorage{basePath: basePath, now: time.Now}, nil
}

func (s *LocalFileStorage) BasePath() string { return s.basePath }

func (s *LocalFileStorage) Save(file io.Reader, originalFileName string, prefix string) (string, error) {
	now := s.now()
	ext := strings.ToLower(filepath.Ext(originalFileName))
	uniqueFileName := fmt.Sprintf("%s-%s%s", now.Format("2006-01-02"), uuid.New().String(), ext)

	datePath := now.Format("2006/01/02")
	fullDirPath := filepath.Join(s.basePath, prefix, filepath.FromSlash(datePath))
	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(fullDirPath, uniqueFileName))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		return "", err
	}

	return PublicPrefix + path.Join(prefix, datePath, uniqueFileName), nil
}

// Delete удаляет файл по публичному URL. Отсутствующий файл - не ошибка,
// URL вне PublicPrefix игнорируется.
func (s *LocalFileStorage) Delete(fileURL string) error {
	if !strings.HasPrefix(fileURL, PublicPrefix) {
		return nil
	}
	relativePath := path.Clean("/" + strings.TrimPrefix(fileURL, PublicPrefix))
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(relativePath))

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
