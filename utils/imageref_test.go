package utils

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAbsoluteImageRef(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"https://cdn.example.com/burger.png", true},
		{"http://cdn.example.com/burger.png", true},
		{"data:image/png;base64,iVBORw0KGgo=", true},
		{"products/123_burger.png", false},
		{"/products/123_burger.png", false},
		{"ftp://cdn.example.com/burger.png", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsAbsoluteImageRef(tt.ref), "ref %q", tt.ref)
	}
}

func TestNormalizeStorageKey(t *testing.T) {
	assert.Equal(t, "products/a.png", NormalizeStorageKey("/products/a.png"))
	assert.Equal(t, "products/a.png", NormalizeStorageKey("//products/a.png"))
	assert.Equal(t, "products/a.png", NormalizeStorageKey("products/a.png"))
	assert.Equal(t, "", NormalizeStorageKey("/"))
}

func TestValidateImageFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantCode string
	}{
		{"valid png", "burger.png", 1024, ""},
		{"valid jpg", "burger.jpg", 1024, ""},
		{"valid jpeg uppercase", "BURGER.JPEG", 1024, ""},
		{"too large", "burger.png", MaxImageSize + 1, "FILE_TOO_LARGE"},
		{"bad extension", "burger.gif", 1024, "INVALID_FILE_FORMAT"},
		{"no extension", "burger", 1024, "INVALID_FILE_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fh := &multipart.FileHeader{Filename: tt.filename, Size: tt.size}
			err := ValidateImageFile(fh)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			var uploadErr *FileUploadError
			assert.ErrorAs(t, err, &uploadErr)
			assert.Equal(t, tt.wantCode, uploadErr.Code)
		})
	}
}
