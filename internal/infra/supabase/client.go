package supabase

import (
	"context"
	"fmt"
	"io"

	"patshala-server/internal/domain"

	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
)

// Storage implements domain.FileStorage on a Supabase Storage bucket.
type Storage struct {
	client *supabase.Client
	bucket string
	logger domain.Logger
}

// NewStorage connects with the service key so uploads bypass row level security.
func NewStorage(config domain.Config, logger domain.Logger) (*Storage, error) {
	supabaseURL := config.GetSupabaseURL()
	supabaseKey := config.GetSupabaseKey()

	if supabaseURL == "" || supabaseKey == "" {
		return nil, fmt.Errorf("supabase URL and key must be provided")
	}

	client, err := supabase.NewClient(supabaseURL, supabaseKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}

	logger.Info("Supabase storage initialized", "url", supabaseURL, "bucket", config.GetSupabaseBucket())
	return &Storage{
		client: client,
		bucket: config.GetSupabaseBucket(),
		logger: logger,
	}, nil
}

// Save uploads the file and returns its public URL.
func (s *Storage) Save(ctx context.Context, path string, file io.Reader, contentType string) (string, error) {
	upsert := false
	_, err := s.client.Storage.UploadFile(s.bucket, path, file, storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		s.logger.Error("Supabase upload failed", err, "bucket", s.bucket, "path", path)
		return "", fmt.Errorf("storage upload failed: %w", err)
	}

	public := s.client.Storage.GetPublicUrl(s.bucket, path)
	return public.SignedURL, nil
}

func (s *Storage) Read(ctx context.Context, path string) ([]byte, error) {
	data, err := s.client.Storage.DownloadFile(s.bucket, path)
	if err != nil {
		return nil, fmt.Errorf("storage download failed: %w", err)
	}
	return data, nil
}

func (s *Storage) Delete(ctx context.Context, path string) error {
	if _, err := s.client.Storage.RemoveFile(s.bucket, []string{path}); err != nil {
		return fmt.Errorf("storage delete failed: %w", err)
	}
	return nil
}
