package drive

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedRepository decorates a FileRepository with a short-lived Redis
// cache over the read-heavy calls (search, recent). Writes and content
// downloads always go straight through.
type CachedRepository struct {
	inner FileRepository
	rdb   *redis.Client
	ttl   time.Duration
}

var _ FileRepository = &CachedRepository{}

func NewCachedRepository(inner FileRepository, rdb *redis.Client, ttl time.Duration) *CachedRepository {
	if ttl == 0 {
		ttl = 2 * time.Minute
	}
	return &CachedRepository{inner: inner, rdb: rdb, ttl: ttl}
}

func (c *CachedRepository) Search(ctx context.Context, term string) ([]FileRecord, error) {
	key := "drive:search:" + term
	if cached, ok := c.lookup(ctx, key); ok {
		return cached, nil
	}
	results, err := c.inner.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, results)
	return results, nil
}

func (c *CachedRepository) SearchMedia(ctx context.Context, term string, mediaType MediaType) ([]FileRecord, error) {
	key := "drive:media:" + string(mediaType) + ":" + term
	if cached, ok := c.lookup(ctx, key); ok {
		return cached, nil
	}
	results, err := c.inner.SearchMedia(ctx, term, mediaType)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, results)
	return results, nil
}

func (c *CachedRepository) GetRecentFiles(ctx context.Context) ([]FileRecord, error) {
	key := "drive:recent"
	if cached, ok := c.lookup(ctx, key); ok {
		return cached, nil
	}
	results, err := c.inner.GetRecentFiles(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, results)
	return results, nil
}

func (c *CachedRepository) GetFoldersOnly(ctx context.Context, parentId string) ([]FileRecord, error) {
	return c.inner.GetFoldersOnly(ctx, parentId)
}

func (c *CachedRepository) GetDocumentContent(ctx context.Context, id, name string) (*DocumentContent, error) {
	return c.inner.GetDocumentContent(ctx, id, name)
}

func (c *CachedRepository) GetVideoTranscript(ctx context.Context, file FileRecord) (*Transcript, error) {
	return c.inner.GetVideoTranscript(ctx, file)
}

func (c *CachedRepository) GetFileById(ctx context.Context, id string) (*FileRecord, error) {
	return c.inner.GetFileById(ctx, id)
}

// UploadFile invalidates the recent-files entry so a fresh upload shows
// up on the next listing
func (c *CachedRepository) UploadFile(ctx context.Context, parentId, name string, content []byte) (*FileRecord, error) {
	record, err := c.inner.UploadFile(ctx, parentId, name, content)
	if err != nil {
		return nil, err
	}
	c.rdb.Del(ctx, "drive:recent")
	return record, nil
}

func (c *CachedRepository) lookup(ctx context.Context, key string) ([]FileRecord, bool) {
	raw, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var records []FileRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, false
	}
	return records, true
}

func (c *CachedRepository) store(ctx context.Context, key string, records []FileRecord) {
	raw, err := json.Marshal(records)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, raw, c.ttl)
}
