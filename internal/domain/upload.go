package domain

import "context"

// Upload fields accepted by POST /upload.
const (
	FieldCV      = "cv"
	FieldDiploma = "diplome"
	FieldLetter  = "lettre"
)

var UploadFields = []string{FieldCV, FieldDiploma, FieldLetter}

type UploadedFile struct {
	Field    string
	Filename string
	Data     []byte
}

// FileStorage persists uploaded blobs under a flat namespace.
type FileStorage interface {
	Put(ctx context.Context, name, contentType string, data []byte) error
	Delete(ctx context.Context, name string) error
	// URL returns where a client can fetch the blob. Local storage returns
	// the public /uploads path; object storage returns a presigned URL.
	URL(ctx context.Context, name string) (string, error)
	Name() string
}

type UploadUsecase interface {
	StoreFiles(ctx context.Context, files []UploadedFile) (map[string]string, error)
	ResolveURL(ctx context.Context, name string) (string, error)
}
