package models

import "gorm.io/gorm"

// File records an uploaded document or image kept under the upload directory.
type File struct {
	gorm.Model
	OwnerID      uint   `json:"owner_id" gorm:"index;not null"`
	FileName     string `json:"file_name" gorm:"not null"` // stored name on disk
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}
