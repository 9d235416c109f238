package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"drive-assistant-be/internal/dto"
	"drive-assistant-be/internal/pkg/logger"
	"drive-assistant-be/pkg/drive"
	"drive-assistant-be/pkg/events"
	pktNats "drive-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const (
	// TopicFileUploaded feeds the in-process indexing pipeline
	TopicFileUploaded = "file_uploaded"

	maxUploadBytes = 50 << 20
)

var allowedUploadExtensions = map[string]bool{
	".docx": true, ".doc": true, ".pdf": true, ".txt": true, ".md": true,
	".csv": true, ".xlsx": true, ".xls": true, ".pptx": true, ".ppt": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".mp4": true, ".mov": true, ".avi": true, ".webm": true,
}

type IFileService interface {
	SearchFiles(ctx context.Context, userId uuid.UUID, query string) (*dto.SearchFilesResponse, error)
	GetRecentFiles(ctx context.Context, userId uuid.UUID) (*dto.RecentFilesResponse, error)
	GetFolders(ctx context.Context, userId uuid.UUID, parentId string) (*dto.FolderListResponse, error)
	UploadFile(ctx context.Context, userId uuid.UUID, parentId, fileName string, content []byte) (*dto.UploadFileResponse, error)
}

type fileService struct {
	oauthService IOAuthService
	repoBuilder  func(ctx context.Context, userId uuid.UUID) (drive.FileRepository, error)
	pubSub       *gochannel.GoChannel
	publisher    *pktNats.Publisher
	log          logger.ILogger
}

func NewFileService(
	oauthService IOAuthService,
	repoBuilder func(ctx context.Context, userId uuid.UUID) (drive.FileRepository, error),
	pubSub *gochannel.GoChannel,
	publisher *pktNats.Publisher,
	log logger.ILogger,
) IFileService {
	return &fileService{
		oauthService: oauthService,
		repoBuilder:  repoBuilder,
		pubSub:       pubSub,
		publisher:    publisher,
		log:          log,
	}
}

func (fs *fileService) SearchFiles(ctx context.Context, userId uuid.UUID, query string) (*dto.SearchFilesResponse, error) {
	repo, err := fs.repoBuilder(ctx, userId)
	if err != nil {
		return nil, err
	}

	items, err := repo.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	return &dto.SearchFilesResponse{Query: query, Items: items}, nil
}

func (fs *fileService) GetRecentFiles(ctx context.Context, userId uuid.UUID) (*dto.RecentFilesResponse, error) {
	repo, err := fs.repoBuilder(ctx, userId)
	if err != nil {
		return nil, err
	}

	items, err := repo.GetRecentFiles(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.RecentFilesResponse{Items: items}, nil
}

func (fs *fileService) GetFolders(ctx context.Context, userId uuid.UUID, parentId string) (*dto.FolderListResponse, error) {
	repo, err := fs.repoBuilder(ctx, userId)
	if err != nil {
		return nil, err
	}

	items, err := repo.GetFoldersOnly(ctx, parentId)
	if err != nil {
		return nil, err
	}

	return &dto.FolderListResponse{ParentId: parentId, Items: items}, nil
}

func (fs *fileService) UploadFile(ctx context.Context, userId uuid.UUID, parentId, fileName string, content []byte) (*dto.UploadFileResponse, error) {
	if err := validateUpload(fileName, int64(len(content))); err != nil {
		return nil, err
	}

	repo, err := fs.repoBuilder(ctx, userId)
	if err != nil {
		return nil, err
	}

	record, err := repo.UploadFile(ctx, parentId, fileName, content)
	if err != nil {
		return nil, err
	}

	fs.notifyUploaded(ctx, userId, record)

	return &dto.UploadFileResponse{File: *record}, nil
}

// validateUpload rejects unsupported extensions and oversized payloads
// before any network call.
func validateUpload(fileName string, size int64) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedUploadExtensions[ext] {
		return fmt.Errorf("unsupported file type %q: supported types are docx, doc, pdf, txt, md, csv, xlsx, xls, pptx, ppt, png, jpg, jpeg, gif, mp4, mov, avi, webm", ext)
	}
	if size > maxUploadBytes {
		return fmt.Errorf("file too large: the limit is 50 MB")
	}
	return nil
}

func (fs *fileService) notifyUploaded(ctx context.Context, userId uuid.UUID, record *drive.FileRecord) {
	payload := dto.PublishFileUploadedMessage{UserId: userId, File: *record}
	raw, err := json.Marshal(payload)
	if err != nil {
		fs.log.Error("file", "failed to marshal upload message", map[string]interface{}{"error": err.Error()})
		return
	}

	if fs.pubSub != nil {
		msg := message.NewMessage(watermill.NewUUID(), raw)
		if err := fs.pubSub.Publish(TopicFileUploaded, msg); err != nil {
			fs.log.Error("file", "failed to publish upload to indexer", map[string]interface{}{"error": err.Error()})
		}
	}

	if fs.publisher != nil {
		event := events.NewFileUploaded(userId.String(), record.Id, record.Name, record.ParentId, record.Size)
		if err := fs.publisher.Publish(ctx, event); err != nil {
			fs.log.Warn("file", "failed to publish FILE_UPLOADED event", map[string]interface{}{"error": err.Error()})
		}
	}
}
