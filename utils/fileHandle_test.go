package utils

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUpload(t *testing.T) {
	ok := &multipart.FileHeader{Filename: "plan.PDF", Size: 1024}
	require.NoError(t, ValidateUpload(ok, 2048))

	tooBig := &multipart.FileHeader{Filename: "site.jpg", Size: 4096}
	assert.Error(t, ValidateUpload(tooBig, 2048))

	badExt := &multipart.FileHeader{Filename: "payload.exe", Size: 10}
	assert.Error(t, ValidateUpload(badExt, 2048))
}

func TestGetFileURL(t *testing.T) {
	assert.Equal(t, "/uploads/plan.pdf", GetFileURL("plan.pdf"))
	assert.Equal(t, "", GetFileURL(""))
}
