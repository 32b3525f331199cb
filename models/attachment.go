package models

import "time"

// Attachment describes a file uploaded for a request. The database row holds
// metadata only; the payload lives on the filesystem under the configured
// uploads directory, addressed by StoredName.
type Attachment struct {
	AttachmentID int64 `json:"id"`
	RequestID    int64 `json:"request_id"`
	UploadedByID int64 `json:"uploaded_by_id"`

	// FileName is the original name supplied by the client, used only
	// when serving the file back.
	FileName string `json:"filename"`

	// StoredName is the generated on-disk name. Never exposed to clients.
	StoredName string `json:"-"`

	Size      int64     `json:"file_size"`
	MimeType  string    `json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Attachment model.
func (a Attachment) TableName() string {
	return "request_attachments"
}
