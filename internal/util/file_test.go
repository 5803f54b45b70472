package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMimeType(t *testing.T) {
	pdfHeader := []byte("%PDF-1.7\n%âãÏÓ\n")
	pngHeader := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

	tests := []struct {
		name    string
		data    []byte
		allowed []string
		wantErr bool
	}{
		{name: "pdf accepted", data: pdfHeader, allowed: []string{MimePDF}, wantErr: false},
		{name: "png accepted as image", data: pngHeader, allowed: []string{MimeImage}, wantErr: false},
		{name: "pdf rejected where image expected", data: pdfHeader, allowed: []string{MimeImage}, wantErr: true},
		{name: "plain text rejected", data: []byte("hello world"), allowed: []string{MimePDF}, wantErr: true},
		{name: "empty file rejected", data: nil, allowed: []string{MimePDF}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateMimeType(bytes.NewReader(tt.data), tt.allowed)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsPDFAndIsImage(t *testing.T) {
	assert.True(t, IsPDF("application/pdf"))
	assert.False(t, IsPDF("application/pdf; charset=binary"))
	assert.True(t, IsImage("image/png"))
	assert.True(t, IsImage("image/jpeg"))
	assert.False(t, IsImage("application/pdf"))
}
