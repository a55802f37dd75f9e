package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"
)

// MockStorageService is an in-memory implementation of StorageInterface for
// testing
type MockStorageService struct {
	buckets   []string
	objects   map[string]map[string][]byte // bucket -> key -> content
	probeErrs map[string]error             // "bucket/key" -> forced probe error
	probes    []string                     // recorded "bucket/key" probe order
	mu        sync.RWMutex
}

// NewMockStorageService creates a mock storage service with the given bucket
// probe order
func NewMockStorageService(buckets ...string) *MockStorageService {
	objects := make(map[string]map[string][]byte, len(buckets))
	for _, b := range buckets {
		objects[b] = make(map[string][]byte)
	}
	return &MockStorageService{
		buckets:   buckets,
		objects:   objects,
		probeErrs: make(map[string]error),
	}
}

// Buckets returns the configured bucket names in probe order
func (m *MockStorageService) Buckets() []string {
	return m.buckets
}

// Put stores an object directly (for test setup)
func (m *MockStorageService) Put(bucket, key string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects[bucket] == nil {
		m.objects[bucket] = make(map[string][]byte)
	}
	m.objects[bucket][key] = content
}

// FailProbe forces KeyExists to fail for a specific bucket/key pair
func (m *MockStorageService) FailProbe(bucket, key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probeErrs[bucket+"/"+key] = err
}

// Probes returns the recorded probe sequence (for ordering assertions)
func (m *MockStorageService) Probes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.probes))
	copy(out, m.probes)
	return out
}

// UploadFile simulates uploading a file into the primary bucket
func (m *MockStorageService) UploadFile(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content := make([]byte, fileHeader.Size)
	if _, err := file.Read(content); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("products/mock_%s", fileHeader.Filename)
	m.Put(m.buckets[0], key, content)
	return key, nil
}

// KeyExists reports whether the mock holds an object under bucket/key
func (m *MockStorageService) KeyExists(ctx context.Context, bucket, key string) (bool, error) {
	m.mu.Lock()
	m.probes = append(m.probes, bucket+"/"+key)
	forced := m.probeErrs[bucket+"/"+key]
	_, exists := m.objects[bucket][key]
	m.mu.Unlock()

	if forced != nil {
		return false, forced
	}
	return exists, nil
}

// PublicURL returns a deterministic mock public address
func (m *MockStorageService) PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://%s.s3.test.amazonaws.com/%s", bucket, key)
}

// DeleteFile removes an object from the primary bucket
func (m *MockStorageService) DeleteFile(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects[m.buckets[0]], key)
	return nil
}
