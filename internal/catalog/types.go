package catalog

import (
	"context"
	"time"
)

// File is a remote catalog file record. Names are not unique; only the ID
// is. Size is nil when the catalog does not know the stored size. Checksum
// reflects the record's current content only; historical revisions carry
// their own.
type File struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CreatedTime time.Time `json:"createdTime"`
	Size        *int64    `json:"size,omitempty"`
	Checksum    string    `json:"md5Checksum,omitempty"`
}

// Revision is one stored historical snapshot of a File, in the order the
// catalog returns them.
type Revision struct {
	ID               string    `json:"id"`
	FileID           string    `json:"-"`
	ModifiedTime     time.Time `json:"modifiedTime"`
	OriginalFilename string    `json:"originalFilename"`
	Size             *int64    `json:"size,omitempty"`
	Checksum         string    `json:"md5Checksum"`
}

// Service is the remote catalog surface the verifier depends on. An empty
// result from either call is a valid outcome, not an error.
type Service interface {
	FindByName(ctx context.Context, name string) ([]File, error)
	ListRevisions(ctx context.Context, fileID string) ([]Revision, error)
}
