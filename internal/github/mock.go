package github

import (
	"context"
	"fmt"
	"sync"
)

// MockClient implements GitHubClient for testing
type MockClient struct {
	mu           sync.RWMutex
	repositories map[string]*Repository // key: "owner/repo"
	contents     map[string][]byte      // key: ContentRef.String()
	downloads    []ContentRef

	// Hooks for testing error scenarios
	GetRepositoryError    error
	DownloadContentsError error
}

// NewMockClient creates a new MockClient
func NewMockClient() *MockClient {
	return &MockClient{
		repositories: make(map[string]*Repository),
		contents:     make(map[string][]byte),
	}
}

// SetupRepository adds a repository to the mock
func (m *MockClient) SetupRepository(owner, repo string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf("%s/%s", owner, repo)
	m.repositories[key] = &Repository{
		Owner:         owner,
		Name:          repo,
		FullName:      key,
		URL:           fmt.Sprintf("https://github.com/%s/%s", owner, repo),
		DefaultBranch: "main",
	}
}

// AddContent registers a file served by DownloadContents
func (m *MockClient) AddContent(ref ContentRef, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contents[ref.String()] = data
}

// Downloads returns every ref requested through DownloadContents
func (m *MockClient) Downloads() []ContentRef {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ContentRef(nil), m.downloads...)
}

func (m *MockClient) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	if m.GetRepositoryError != nil {
		return nil, m.GetRepositoryError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	key := fmt.Sprintf("%s/%s", owner, repo)
	repository, exists := m.repositories[key]
	if !exists {
		return nil, fmt.Errorf("repository %s not found", key)
	}
	return repository, nil
}

func (m *MockClient) DownloadContents(ctx context.Context, owner, repo, ref, path string) ([]byte, error) {
	if m.DownloadContentsError != nil {
		return nil, m.DownloadContentsError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := ContentRef{Owner: owner, Repo: repo, Ref: ref, Path: path}
	m.downloads = append(m.downloads, key)

	data, exists := m.contents[key.String()]
	if !exists {
		return nil, fmt.Errorf("content %s not found", key)
	}
	return data, nil
}
