package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"sync"

	"github.com/google/uuid"

	"github.com/stitchly-app/stitchly-api/utils"
)

// MockImageService keeps uploads in memory so handler tests can run without
// object storage. Keys follow the same <prefix>/<uuid><ext> shape the real
// service produces.
type MockImageService struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// FailUploads makes every UploadImage call return an error, for
	// exercising upload failure paths.
	FailUploads bool
}

// NewMockImageService creates an empty in-memory image service.
func NewMockImageService() *MockImageService {
	return &MockImageService{objects: make(map[string][]byte)}
}

// Install registers this mock as the active image service.
func (m *MockImageService) Install() {
	SetImageService(m)
}

// UploadImage validates the file like the real service and stores its bytes
// in memory.
func (m *MockImageService) UploadImage(fileHeader *multipart.FileHeader, prefix string) (string, error) {
	if m.FailUploads {
		return "", fmt.Errorf("simulated upload failure for %s", fileHeader.Filename)
	}
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("%s/%s", prefix, uuid.New().String())
	m.mu.Lock()
	m.objects[key] = content
	m.mu.Unlock()

	return key, nil
}

// GetImageURL returns a stable fake URL for a stored key.
func (m *MockImageService) GetImageURL(imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.objects[imageKey]
	m.mu.RUnlock()
	if !exists {
		return "", fmt.Errorf("no such image: %s", imageKey)
	}

	return "https://stitchly-test.s3.us-east-1.amazonaws.com/" + imageKey, nil
}

// DeleteImage removes a stored key. Deleting an unknown key is not an error,
// matching S3 semantics.
func (m *MockImageService) DeleteImage(imageKey string) error {
	if imageKey == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.objects, imageKey)
	m.mu.Unlock()
	return nil
}

// StoredCount reports how many objects the mock currently holds.
func (m *MockImageService) StoredCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
