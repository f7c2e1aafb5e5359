package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// SupabaseStore handles blobs in Supabase Storage. The first portal release
// stored documents there; this backend keeps those deployments working.
type SupabaseStore struct {
	projectID  string
	apiKey     string
	httpClient *http.Client
}

func NewSupabaseStore(projectID, apiKey string) *SupabaseStore {
	return &SupabaseStore{
		projectID:  projectID,
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

func (s *SupabaseStore) objectURL(bucket, path string) string {
	return fmt.Sprintf("https://%s.supabase.co/storage/v1/object/%s/%s",
		s.projectID, bucket, path)
}

// Put uploads a blob. Returns the storage path on success.
func (s *SupabaseStore) Put(ctx context.Context, bucket, path string, body io.Reader, contentType string) (string, error) {

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.objectURL(bucket, path), bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))
	req.Header.Set("Content-Type", contentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	return path, nil
}

func (s *SupabaseStore) Download(ctx context.Context, bucket, path string) ([]byte, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.objectURL(bucket, path), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("download failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	return io.ReadAll(resp.Body)
}

func (s *SupabaseStore) Remove(ctx context.Context, bucket string, paths []string) error {

	for _, path := range paths {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(bucket, path), nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to delete file: %w", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
			return fmt.Errorf("delete failed with status %d for %s", resp.StatusCode, path)
		}
	}

	return nil
}

// PublicURL returns the public URL for a blob.
func (s *SupabaseStore) PublicURL(bucket, path string) string {
	return fmt.Sprintf("https://%s.supabase.co/storage/v1/object/public/%s/%s",
		s.projectID, bucket, path)
}
