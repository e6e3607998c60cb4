package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var unsafePathChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// NotePath builds {college}/{program}/{subject}/{uuid}{ext} with each segment
// reduced to alphanumerics, dash and underscore.
func NotePath(collegeShort, programShort, subjectCode, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".pdf"
	}
	return path.Join(
		sanitizeSegment(collegeShort),
		sanitizeSegment(programShort),
		sanitizeSegment(subjectCode),
		uuid.NewString()+ext,
	)
}

func sanitizeSegment(s string) string {
	s = unsafePathChars.ReplaceAllString(strings.TrimSpace(s), "")
	if s == "" {
		return "unknown"
	}
	return s
}

// LocalStorage keeps note files under a directory on disk.
type LocalStorage struct {
	root      string
	urlPrefix string
}

func NewLocalStorage(root string) *LocalStorage {
	return &LocalStorage{root: root, urlPrefix: "/uploads/"}
}

// Save writes the file and returns its public URL path.
func (s *LocalStorage) Save(ctx context.Context, relPath string, file io.Reader, contentType string) (string, error) {
	full, err := s.resolve(relPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	out, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	rel, _ := filepath.Rel(s.root, full)
	return s.urlPrefix + filepath.ToSlash(rel), nil
}

func (s *LocalStorage) Read(ctx context.Context, relPath string) ([]byte, error) {
	full, err := s.resolve(relPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Delete removes a stored file. A missing file is not an error.
func (s *LocalStorage) Delete(ctx context.Context, relPath string) error {
	full, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// resolve keeps every path inside root.
func (s *LocalStorage) resolve(relPath string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(relPath))
	if clean == string(filepath.Separator) {
		return "", fmt.Errorf("invalid storage path %q", relPath)
	}
	return filepath.Join(s.root, clean), nil
}
