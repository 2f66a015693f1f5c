package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailmap/internal/auth"
	"mailmap/internal/backend"
	"mailmap/internal/common"
	"mailmap/internal/content"
	"mailmap/internal/netclient"
)

const testSecret = "dev-secret"

func startServer(t *testing.T) (*Server, *backend.API) {
	t.Helper()
	srv := NewServer(testSecret)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	client := netclientForTest()
	return srv, backend.NewAPI(client, ts.URL)
}

func netclientForTest() *netclient.Client {
	return netclient.New(2*time.Second, 1, time.Millisecond)
}

func login(t *testing.T, srv *Server, baseURL, userID string) auth.Identity {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"userId": userID})
	resp, err := http.Post(baseURL+"/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out struct {
		UserID string `json:"userId"`
		Token  string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, userID, out.UserID)
	require.NotEmpty(t, out.Token)
	return auth.Identity{UID: out.UserID, Token: out.Token}
}

func TestCreateApproveFetchLoop(t *testing.T) {
	srv, api := startServer(t)
	ctx := context.Background()

	result, err := api.CreateItem(ctx, backend.CreateRequest{
		Text:      "hello map",
		Latitude:  55.7,
		Longitude: 37.6,
		ImageName: "pic.png",
		ImageMIME: "image/png",
		ImageData: []byte("png-bytes"),
	}, auth.Identity{UID: "author-1"})
	require.NoError(t, err)
	require.NotEmpty(t, result.ContentID)
	assert.Nil(t, result.Item, "creation answers with an id pending moderation")

	// pending item is invisible to other users
	items, err := api.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	srv.approveDirect(t, result.ContentID)

	item, err := api.FetchItem(ctx, result.ContentID)
	require.NoError(t, err)
	assert.Equal(t, "hello map", item.Text)
	assert.Equal(t, content.StatusPublished, item.Status)
	assert.Equal(t, "author-1", item.UserID)
	assert.Equal(t, 55.7, item.Latitude)
	assert.NotEmpty(t, item.ImageURL)
}

// approveDirect flips moderation without going over HTTP.
func (s *Server) approveDirect(t *testing.T, contentID string) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[contentID]
	require.True(t, ok)
	item.Status = content.StatusPublished
}

func TestVote(t *testing.T) {
	srv, api := startServer(t)
	ctx := context.Background()

	srv.Seed(content.Item{ItemID: "item-1", Status: content.StatusPublished, UserID: "author-1", VoteCount: 4})

	count, err := api.Vote(ctx, "item-1", 1, auth.Identity{UID: "voter-1"})
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	count, err = api.Vote(ctx, "item-1", -1, auth.Identity{UID: "voter-2"})
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestVote_BlockedUnderModeration(t *testing.T) {
	srv, api := startServer(t)

	srv.Seed(content.Item{ItemID: "item-1", Status: content.StatusForModeration, UserID: "author-1"})

	_, err := api.Vote(context.Background(), "item-1", 1, auth.Identity{UID: "voter-1"})
	var httpErr *common.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
}

func TestEditAndDelete_OwnerOnly(t *testing.T) {
	srv, api := startServer(t)
	ctx := context.Background()

	srv.Seed(content.Item{ItemID: "item-1", Status: content.StatusPublished, UserID: "author-1", Text: "old"})

	err := api.EditItem(ctx, "item-1", "new", "", auth.Identity{UID: "stranger"})
	var httpErr *common.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	assert.Contains(t, httpErr.Error(), "not your post")

	require.NoError(t, api.EditItem(ctx, "item-1", "new", "", auth.Identity{UID: "author-1"}))

	item, err := api.FetchItem(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, "new", item.Text)

	require.NoError(t, api.DeleteItem(ctx, "item-1", auth.Identity{UID: "author-1"}))

	_, err = api.FetchItem(ctx, "item-1")
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestBearerTokenIdentifiesOwner(t *testing.T) {
	srv := NewServer(testSecret)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	api := backend.NewAPI(netclientForTest(), ts.URL)

	id := login(t, srv, ts.URL, "author-1")
	srv.Seed(content.Item{ItemID: "item-1", Status: content.StatusPublished, UserID: "author-1"})

	// token alone is enough even with a mismatched header
	spoofed := auth.Identity{UID: "author-1", Token: id.Token}
	require.NoError(t, api.EditItem(context.Background(), "item-1", "edited", "", spoofed))
}

func TestReport(t *testing.T) {
	srv, api := startServer(t)

	srv.Seed(content.Item{ItemID: "item-1", Status: content.StatusPublished, UserID: "author-1"})

	require.NoError(t, api.Report(context.Background(), "item-1", "spam content", auth.Identity{UID: "reporter-1"}))

	srv.mu.RLock()
	defer srv.mu.RUnlock()
	assert.Equal(t, 1, srv.items["item-1"].ReportedCount)
}

func TestListVisibility(t *testing.T) {
	srv := NewServer(testSecret)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	srv.Seed(content.Item{ItemID: "pub-1", Status: content.StatusPublished, UserID: "a"})
	srv.Seed(content.Item{ItemID: "pending-1", Status: content.StatusForModeration, UserID: "author-1"})

	// anonymous listing sees only published content
	api := backend.NewAPI(netclientForTest(), ts.URL)
	items, err := api.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "pub-1", items[0].ItemID)
}

func TestServeImage(t *testing.T) {
	srv := NewServer(testSecret)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	api := backend.NewAPI(netclientForTest(), ts.URL)
	ctx := context.Background()

	result, err := api.CreateItem(ctx, backend.CreateRequest{
		Latitude:  1,
		Longitude: 2,
		ImageName: "pic.png",
		ImageMIME: "image/png",
		ImageData: []byte("png-bytes"),
	}, auth.Identity{UID: "author-1"})
	require.NoError(t, err)

	srv.approveDirect(t, result.ContentID)
	item, err := api.FetchItem(ctx, result.ContentID)
	require.NoError(t, err)
	require.NotEmpty(t, item.ImageURL)

	resp, err := http.Get(ts.URL + item.ImageURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	body := new(bytes.Buffer)
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", body.String())
}
