package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"drive-assistant-be/pkg/drive"
	"drive-assistant-be/pkg/msauth"
)

// DefaultScopes requested for every Graph call
var DefaultScopes = []string{"Files.ReadWrite.All", "Sites.Read.All"}

// Client talks to a Microsoft Graph-compatible drive API and normalizes
// items into drive.FileRecord values.
type Client struct {
	BaseURL string
	Tokens  msauth.TokenProvider
	Client  *http.Client
}

// Ensure Client implements the repository contract
var _ drive.FileRepository = &Client{}

func NewClient(baseURL string, tokens msauth.TokenProvider) *Client {
	if baseURL == "" {
		baseURL = "https://graph.microsoft.com/v1.0"
	}
	return &Client{
		BaseURL: baseURL,
		Tokens:  tokens,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Graph response structs (internal to this package) ---

type graphItem struct {
	Id                   string `json:"id"`
	Name                 string `json:"name"`
	Size                 int64  `json:"size"`
	WebUrl               string `json:"webUrl"`
	LastModifiedDateTime string `json:"lastModifiedDateTime"`
	DownloadUrl          string `json:"@microsoft.graph.downloadUrl"`
	Folder               *struct {
		ChildCount int `json:"childCount"`
	} `json:"folder"`
	File *struct {
		MimeType string `json:"mimeType"`
	} `json:"file"`
	ParentReference *struct {
		Id   string `json:"id"`
		Path string `json:"path"`
	} `json:"parentReference"`
	LastModifiedBy *struct {
		User struct {
			DisplayName string `json:"displayName"`
		} `json:"user"`
	} `json:"lastModifiedBy"`
	Thumbnails []struct {
		Medium struct {
			Url string `json:"url"`
		} `json:"medium"`
	} `json:"thumbnails"`
}

type graphList struct {
	Value []graphItem `json:"value"`
}

// --- FileRepository implementation ---

func (c *Client) Search(ctx context.Context, term string) ([]drive.FileRecord, error) {
	endpoint := fmt.Sprintf("/me/drive/root/search(q='%s')?$expand=thumbnails&$top=50", url.PathEscape(term))
	var list graphList
	if err := c.get(ctx, endpoint, &list); err != nil {
		return nil, err
	}
	return c.normalizeAll(list.Value), nil
}

func (c *Client) SearchMedia(ctx context.Context, term string, mediaType drive.MediaType) ([]drive.FileRecord, error) {
	results, err := c.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	media := make([]drive.FileRecord, 0, len(results))
	for _, r := range results {
		switch mediaType {
		case drive.MediaTypeImage:
			if r.IsImage() {
				media = append(media, r)
			}
		case drive.MediaTypeVideo:
			if r.IsVideo() {
				media = append(media, r)
			}
		default:
			if r.IsImage() || r.IsVideo() {
				media = append(media, r)
			}
		}
	}
	return media, nil
}

func (c *Client) GetRecentFiles(ctx context.Context) ([]drive.FileRecord, error) {
	var list graphList
	if err := c.get(ctx, "/me/drive/recent?$top=50", &list); err != nil {
		return nil, err
	}
	return c.normalizeAll(list.Value), nil
}

func (c *Client) GetFoldersOnly(ctx context.Context, parentId string) ([]drive.FileRecord, error) {
	endpoint := "/me/drive/root/children"
	if parentId != "" {
		endpoint = fmt.Sprintf("/me/drive/items/%s/children", url.PathEscape(parentId))
	}
	var list graphList
	if err := c.get(ctx, endpoint, &list); err != nil {
		return nil, err
	}
	folders := make([]drive.FileRecord, 0)
	for _, item := range list.Value {
		if item.Folder != nil {
			folders = append(folders, normalize(item))
		}
	}
	return folders, nil
}

func (c *Client) GetFileById(ctx context.Context, id string) (*drive.FileRecord, error) {
	var item graphItem
	err := c.get(ctx, fmt.Sprintf("/me/drive/items/%s", url.PathEscape(id)), &item)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	record := normalize(item)
	return &record, nil
}

func (c *Client) GetDocumentContent(ctx context.Context, id, name string) (*drive.DocumentContent, error) {
	var item graphItem
	if err := c.get(ctx, fmt.Sprintf("/me/drive/items/%s", url.PathEscape(id)), &item); err != nil {
		return nil, err
	}

	raw, err := c.download(ctx, fmt.Sprintf("/me/drive/items/%s/content", url.PathEscape(id)))
	if err != nil {
		return nil, err
	}

	record := normalize(item)
	return &drive.DocumentContent{
		Content:        extractText(name, raw),
		Path:           record.Path,
		Size:           record.Size,
		LastModified:   record.Date,
		LastModifiedBy: record.SharedBy,
		WebUrl:         record.WebUrl,
	}, nil
}

// GetVideoTranscript looks for a sibling .vtt transcript next to the
// video item, the convention Teams recordings follow.
func (c *Client) GetVideoTranscript(ctx context.Context, file drive.FileRecord) (*drive.Transcript, error) {
	base := strings.TrimSuffix(file.Name, path.Ext(file.Name))
	siblings, err := c.childrenOf(ctx, file.ParentId)
	if err != nil {
		return nil, err
	}

	for _, s := range siblings {
		lower := strings.ToLower(s.Name)
		if !strings.HasSuffix(lower, ".vtt") && !strings.HasSuffix(lower, ".txt") {
			continue
		}
		if !strings.Contains(lower, strings.ToLower(base)) {
			continue
		}
		raw, err := c.download(ctx, fmt.Sprintf("/me/drive/items/%s/content", url.PathEscape(s.Id)))
		if err != nil {
			return nil, err
		}
		return &drive.Transcript{HasTranscript: true, Content: cleanTranscript(string(raw))}, nil
	}

	return &drive.Transcript{HasTranscript: false}, nil
}

func (c *Client) UploadFile(ctx context.Context, parentId, name string, content []byte) (*drive.FileRecord, error) {
	endpoint := fmt.Sprintf("/me/drive/root:/%s:/content", url.PathEscape(name))
	if parentId != "" {
		endpoint = fmt.Sprintf("/me/drive/items/%s:/%s:/content", url.PathEscape(parentId), url.PathEscape(name))
	}

	token, err := c.Tokens.AcquireToken(ctx, DefaultScopes)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "PUT", c.BaseURL+endpoint, bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/octet-stream")

	res, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("upload failed, got status %d with body %s", res.StatusCode, string(body))
	}

	var item graphItem
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, err
	}
	record := normalize(item)
	return &record, nil
}

// --- helpers ---

func (c *Client) childrenOf(ctx context.Context, parentId string) ([]drive.FileRecord, error) {
	endpoint := "/me/drive/root/children"
	if parentId != "" {
		endpoint = fmt.Sprintf("/me/drive/items/%s/children", url.PathEscape(parentId))
	}
	var list graphList
	if err := c.get(ctx, endpoint, &list); err != nil {
		return nil, err
	}
	return c.normalizeAll(list.Value), nil
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	token, err := c.Tokens.AcquireToken(ctx, DefaultScopes)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode != http.StatusOK {
		return &apiError{Status: res.StatusCode, Body: string(body)}
	}

	return json.Unmarshal(body, out)
}

func (c *Client) download(ctx context.Context, endpoint string) ([]byte, error) {
	token, err := c.Tokens.AcquireToken(ctx, DefaultScopes)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, &apiError{Status: res.StatusCode, Body: string(body)}
	}
	return io.ReadAll(res.Body)
}

func (c *Client) normalizeAll(items []graphItem) []drive.FileRecord {
	records := make([]drive.FileRecord, 0, len(items))
	for _, item := range items {
		records = append(records, normalize(item))
	}
	return records
}

func normalize(item graphItem) drive.FileRecord {
	record := drive.FileRecord{
		Id:          item.Id,
		Name:        item.Name,
		WebUrl:      item.WebUrl,
		Size:        item.Size,
		DownloadUrl: item.DownloadUrl,
	}

	if item.LastModifiedDateTime != "" {
		// Keep just the date part of the ISO timestamp
		record.Date = strings.SplitN(item.LastModifiedDateTime, "T", 2)[0]
	}
	if item.LastModifiedBy != nil {
		record.SharedBy = item.LastModifiedBy.User.DisplayName
	}
	if item.ParentReference != nil {
		record.ParentId = item.ParentReference.Id
		record.Path = displayPath(item.ParentReference.Path, item.Name)
	}
	if len(item.Thumbnails) > 0 {
		record.ThumbnailUrl = item.Thumbnails[0].Medium.Url
	}

	if item.Folder != nil {
		record.Type = drive.FileTypeFolder
		record.IsFolder = true
	} else {
		record.Type = drive.TypeForName(item.Name)
	}
	if record.IsVideo() {
		record.EmbedUrl = item.WebUrl
	}
	return record
}

// displayPath strips the Graph drive prefix so users see "/Folder/File"
func displayPath(parentPath, name string) string {
	if idx := strings.Index(parentPath, "root:"); idx >= 0 {
		parentPath = parentPath[idx+len("root:"):]
	}
	if parentPath == "" {
		return "/" + name
	}
	return parentPath + "/" + name
}

type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("graph: status %d, body %s", e.Status, e.Body)
}

func isNotFound(err error) bool {
	apiErr, ok := err.(*apiError)
	return ok && apiErr.Status == http.StatusNotFound
}
