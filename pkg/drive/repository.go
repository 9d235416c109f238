package drive

import "context"

// FileRepository is the contract the assistant engine needs from the
// storage backend. Implementations return normalized FileRecords.
type FileRepository interface {
	// Search queries the backend index for items matching term
	Search(ctx context.Context, term string) ([]FileRecord, error)

	// SearchMedia queries for image/video items only
	SearchMedia(ctx context.Context, term string, mediaType MediaType) ([]FileRecord, error)

	// GetRecentFiles lists the user's most recently used items
	GetRecentFiles(ctx context.Context) ([]FileRecord, error)

	// GetFoldersOnly lists child folders of parentId (root when empty)
	GetFoldersOnly(ctx context.Context, parentId string) ([]FileRecord, error)

	// GetDocumentContent downloads and extracts the text of one document
	GetDocumentContent(ctx context.Context, id, name string) (*DocumentContent, error)

	// GetVideoTranscript fetches the transcript attached to a video item
	GetVideoTranscript(ctx context.Context, file FileRecord) (*Transcript, error)

	// GetFileById resolves a single item; nil when the id is unknown
	GetFileById(ctx context.Context, id string) (*FileRecord, error)

	// UploadFile stores content under parentId and returns the created record
	UploadFile(ctx context.Context, parentId, name string, content []byte) (*FileRecord, error)
}
