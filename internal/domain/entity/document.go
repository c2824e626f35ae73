package entity

import "time"

// Document is the metadata record for one uploaded file. The bytes live
// behind the blob storage collaborator; FileURL is the opaque locator it
// returned. Documents are immutable once created.
type Document struct {
	ID        int64
	UserEmail string
	Filename  string
	FileURL   string
	FileType  string
	CreatedAt time.Time
}
