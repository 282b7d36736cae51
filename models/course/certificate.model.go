package course

import "time"

// Certificate is the durable proof-of-completion artifact for one
// enrollment. The unique index on EnrollmentID arbitrates concurrent issue
// calls: the first writer wins and later callers read back its row.
type Certificate struct {
	ID                uint      `json:"id" gorm:"primarykey"`
	EnrollmentID      uint      `json:"enrollment_id" gorm:"not null;uniqueIndex"`
	StudentID         uint      `json:"student_id" gorm:"index;not null"`
	CourseID          uint      `json:"course_id" gorm:"index;not null"`
	CertificateNumber string    `json:"certificate_number" gorm:"unique"`
	FilePath          string    `json:"file_path"` // public locator of the rendered artifact
	IssuedAt          time.Time `json:"issued_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
