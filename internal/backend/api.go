// Package backend is the typed client for the content REST API. Every call
// goes through netclient, so it inherits timeout, retry and content
// negotiation behavior.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"mailmap/internal/auth"
	"mailmap/internal/content"
	"mailmap/internal/netclient"
)

type API struct {
	client  *netclient.Client
	baseURL string
}

func NewAPI(client *netclient.Client, baseURL string) *API {
	return &API{client: client, baseURL: baseURL}
}

func (a *API) url(path string) string {
	return a.baseURL + path
}

// authHeaders carries the caller's identity: X-User-ID always, the bearer
// token where available.
func authHeaders(id auth.Identity) map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
		"X-User-ID":    id.UID,
	}
	if id.Token != "" {
		headers["Authorization"] = "Bearer " + id.Token
	}
	return headers
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Vote submits a signed unit vote and returns the authoritative vote count
// from the server.
func (a *API) Vote(ctx context.Context, itemID string, value int, id auth.Identity) (int, error) {
	body, err := json.Marshal(map[string]interface{}{
		"vote":   value,
		"userId": id.UID,
	})
	if err != nil {
		return 0, err
	}

	resp, err := a.client.Request(ctx, a.url("/api/content/"+itemID+"/vote"), netclient.Options{
		Method: http.MethodPost,
		Header: authHeaders(id),
		Body:   body,
	})
	if err != nil {
		return 0, err
	}

	var out struct {
		statusResponse
		NewVoteCount int `json:"newVoteCount"`
	}
	if err := resp.Decode(&out); err != nil {
		return 0, fmt.Errorf("decoding vote response: %w", err)
	}
	if out.Status != "success" {
		return 0, fmt.Errorf("vote failed: %s", orDefault(out.Message, "Vote failed"))
	}
	return out.NewVoteCount, nil
}

// Report files a moderation report. It mutates nothing client-side.
func (a *API) Report(ctx context.Context, itemID, reason string, id auth.Identity) error {
	body, err := json.Marshal(map[string]string{
		"reason": reason,
		"userId": id.UID,
	})
	if err != nil {
		return err
	}

	resp, err := a.client.Request(ctx, a.url("/api/content/"+itemID+"/report"), netclient.Options{
		Method: http.MethodPost,
		Header: authHeaders(id),
		Body:   body,
	})
	if err != nil {
		return err
	}

	var out statusResponse
	if err := resp.Decode(&out); err != nil {
		return fmt.Errorf("decoding report response: %w", err)
	}
	if out.Status != "success" {
		return fmt.Errorf("report failed: %s", orDefault(out.Message, "Report failed"))
	}
	return nil
}

// FetchItem loads one item fresh from the backend, bypassing the client
// mirror.
func (a *API) FetchItem(ctx context.Context, itemID string) (content.Item, error) {
	resp, err := a.client.Request(ctx, a.url("/api/content/"+itemID), netclient.Options{})
	if err != nil {
		return content.Item{}, err
	}

	var out struct {
		Content *content.Item `json:"content"`
	}
	if err := resp.Decode(&out); err != nil {
		return content.Item{}, fmt.Errorf("decoding content response: %w", err)
	}
	if out.Content == nil {
		return content.Item{}, fmt.Errorf("content not found or failed to fetch")
	}
	return *out.Content, nil
}

// ListItems loads the whole working set.
func (a *API) ListItems(ctx context.Context) ([]content.Item, error) {
	resp, err := a.client.Request(ctx, a.url("/api/content"), netclient.Options{})
	if err != nil {
		return nil, err
	}

	var out struct {
		Items []content.Item `json:"items"`
	}
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding content list: %w", err)
	}
	return out.Items, nil
}

// EditItem updates the text (and unchanged image reference) of an item.
func (a *API) EditItem(ctx context.Context, itemID, text, imageURL string, id auth.Identity) error {
	body, err := json.Marshal(map[string]string{
		"text":     text,
		"imageUrl": imageURL,
	})
	if err != nil {
		return err
	}

	resp, err := a.client.Request(ctx, a.url("/api/content/"+itemID+"/edit"), netclient.Options{
		Method: http.MethodPut,
		Header: authHeaders(id),
		Body:   body,
	})
	if err != nil {
		return err
	}

	var out statusResponse
	if err := resp.Decode(&out); err != nil {
		return fmt.Errorf("decoding edit response: %w", err)
	}
	if out.Status != "success" {
		return fmt.Errorf("edit failed: %s", orDefault(out.Message, "Edit failed"))
	}
	return nil
}

// DeleteItem deletes an item. The backend answers either JSON or plain
// text; both count as success.
func (a *API) DeleteItem(ctx context.Context, itemID string, id auth.Identity) error {
	resp, err := a.client.Request(ctx, a.url("/api/content/"+itemID+"/delete"), netclient.Options{
		Method: http.MethodDelete,
		Header: authHeaders(id),
	})
	if err != nil {
		return err
	}

	if !resp.IsJSON {
		return nil
	}
	var out statusResponse
	if err := resp.Decode(&out); err != nil {
		return fmt.Errorf("decoding delete response: %w", err)
	}
	if out.Status != "success" {
		return fmt.Errorf("delete failed: %s", orDefault(out.Message, "Delete failed"))
	}
	return nil
}

// CreateRequest is a new item submission. Image bytes are optional when
// Text is present, but the create flow requires one of the two.
type CreateRequest struct {
	Text      string
	Latitude  float64
	Longitude float64
	ImageName string
	ImageMIME string
	ImageData []byte
}

// CreateResult is whichever shape the backend returned: the full created
// item, or just its id pending moderation.
type CreateResult struct {
	Item      *content.Item
	ContentID string
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// CreateItem submits a new item as multipart form data. The image part
// carries its real MIME type so the backend stores and serves it correctly.
func (a *API) CreateItem(ctx context.Context, req CreateRequest, id auth.Identity) (CreateResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if len(req.ImageData) > 0 {
		mimeType := req.ImageMIME
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, quoteEscaper.Replace(req.ImageName)))
		header.Set("Content-Type", mimeType)
		part, err := w.CreatePart(header)
		if err != nil {
			return CreateResult{}, err
		}
		if _, err := part.Write(req.ImageData); err != nil {
			return CreateResult{}, err
		}
	}
	_ = w.WriteField("text", req.Text)
	_ = w.WriteField("latitude", strconv.FormatFloat(req.Latitude, 'f', -1, 64))
	_ = w.WriteField("longitude", strconv.FormatFloat(req.Longitude, 'f', -1, 64))
	uid := id.UID
	if uid == "" {
		uid = "anonymous"
	}
	_ = w.WriteField("userId", uid)
	if err := w.Close(); err != nil {
		return CreateResult{}, err
	}

	headers := authHeaders(id)
	headers["Content-Type"] = w.FormDataContentType()

	resp, err := a.client.Request(ctx, a.url("/api/content/create"), netclient.Options{
		Method: http.MethodPost,
		Header: headers,
		Body:   buf.Bytes(),
	})
	if err != nil {
		return CreateResult{}, err
	}

	var out struct {
		statusResponse
		ContentID string        `json:"contentId"`
		Content   *content.Item `json:"content"`
	}
	if err := resp.Decode(&out); err != nil {
		return CreateResult{}, fmt.Errorf("decoding create response: %w", err)
	}
	if out.Content == nil && out.ContentID == "" {
		return CreateResult{}, fmt.Errorf("create failed: %s", orDefault(out.Message, "no content returned"))
	}
	return CreateResult{Item: out.Content, ContentID: out.ContentID}, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
