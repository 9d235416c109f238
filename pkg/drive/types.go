package drive

import (
	"path/filepath"
	"strings"
)

// FileType is the normalized category of a storage item
type FileType string

const (
	FileTypeDocument     FileType = "document"
	FileTypeSpreadsheet  FileType = "spreadsheet"
	FileTypePDF          FileType = "pdf"
	FileTypePresentation FileType = "presentation"
	FileTypeImage        FileType = "image"
	FileTypeVideo        FileType = "video"
	FileTypeAudio        FileType = "audio"
	FileTypeArchive      FileType = "archive"
	FileTypeFolder       FileType = "folder"
	FileTypeFile         FileType = "file"
)

// MediaType narrows a media search to one kind
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeAll   MediaType = "all"
)

// FileRecord is one normalized storage item.
// Id is stable across calls: two records with the same Id denote the
// same backend object.
type FileRecord struct {
	Id           string   `json:"id"`
	Name         string   `json:"name"`
	Path         string   `json:"path"`
	ParentId     string   `json:"parent_id,omitempty"`
	WebUrl       string   `json:"web_url,omitempty"`
	Size         int64    `json:"size,omitempty"`
	Date         string   `json:"date,omitempty"`
	SharedBy     string   `json:"shared_by,omitempty"`
	Type         FileType `json:"type"`
	IsFolder     bool     `json:"is_folder"`
	ThumbnailUrl string   `json:"thumbnail_url,omitempty"`
	DownloadUrl  string   `json:"download_url,omitempty"`
	EmbedUrl     string   `json:"embed_url,omitempty"`
}

// DocumentContent carries the extracted text of one document
type DocumentContent struct {
	Content        string `json:"content"`
	Path           string `json:"path"`
	Size           int64  `json:"size"`
	LastModified   string `json:"last_modified"`
	LastModifiedBy string `json:"last_modified_by"`
	WebUrl         string `json:"web_url"`
}

// Transcript is the result of a transcript lookup on a video item
type Transcript struct {
	HasTranscript bool   `json:"has_transcript"`
	Content       string `json:"content"`
}

// TypeForName maps a filename to its normalized FileType by extension
func TypeForName(name string) FileType {
	ext := lowerExt(name)
	switch ext {
	case "doc", "docx", "txt", "md", "rtf":
		return FileTypeDocument
	case "xls", "xlsx", "csv":
		return FileTypeSpreadsheet
	case "pdf":
		return FileTypePDF
	case "ppt", "pptx":
		return FileTypePresentation
	case "png", "jpg", "jpeg", "gif", "bmp", "svg", "webp":
		return FileTypeImage
	case "mp4", "mov", "avi", "mkv", "webm", "wmv":
		return FileTypeVideo
	case "mp3", "wav", "m4a", "ogg":
		return FileTypeAudio
	case "zip", "rar", "7z", "tar", "gz":
		return FileTypeArchive
	default:
		return FileTypeFile
	}
}

// IsVideo reports whether the record is a video item
func (f FileRecord) IsVideo() bool {
	return f.Type == FileTypeVideo || TypeForName(f.Name) == FileTypeVideo
}

// IsImage reports whether the record is an image item
func (f FileRecord) IsImage() bool {
	return f.Type == FileTypeImage || TypeForName(f.Name) == FileTypeImage
}

func lowerExt(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}
