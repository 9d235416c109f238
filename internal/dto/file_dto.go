package dto

import (
	"drive-assistant-be/pkg/drive"

	"github.com/google/uuid"
)

// PublishFileUploadedMessage is the payload carried on the in-process
// upload-indexing topic
type PublishFileUploadedMessage struct {
	UserId uuid.UUID        `json:"user_id"`
	File   drive.FileRecord `json:"file"`
}

type SearchFilesResponse struct {
	Query string             `json:"query"`
	Items []drive.FileRecord `json:"items"`
}

type RecentFilesResponse struct {
	Items []drive.FileRecord `json:"items"`
}

type FolderListResponse struct {
	ParentId string             `json:"parent_id,omitempty"`
	Items    []drive.FileRecord `json:"items"`
}

type UploadFileResponse struct {
	File drive.FileRecord `json:"file"`
}
