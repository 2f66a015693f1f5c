package maprender

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailmap/internal/common"
	"mailmap/internal/content"
)

type fakeMarker struct {
	removed bool
}

func (m *fakeMarker) Remove() { m.removed = true }

type fakeSurface struct {
	mu            sync.Mutex
	created       map[string]*fakeMarker
	clicks        map[string]func()
	center        common.LatLng
	zoom          int
	fitted        common.GeoBounds
	fitCalls      int
	openID        string
	popup         PopupContent
	setContent    []PopupContent
	closedCount   int
	viewportCalls int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		created: make(map[string]*fakeMarker),
		clicks:  make(map[string]func()),
	}
}

func (s *fakeSurface) CreateMarker(item content.Item, onClick func()) MarkerHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &fakeMarker{}
	s.created[item.ItemID] = m
	s.clicks[item.ItemID] = onClick
	return m
}

func (s *fakeSurface) SetViewport(center common.LatLng, zoom int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.center = center
	s.zoom = zoom
	s.viewportCalls++
}

func (s *fakeSurface) FitBounds(bounds common.GeoBounds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = bounds
	s.fitCalls++
}

func (s *fakeSurface) OpenPopup(itemID string, popup PopupContent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openID = itemID
	s.popup = popup
}

func (s *fakeSurface) SetPopupContent(popup PopupContent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.popup = popup
	s.setContent = append(s.setContent, popup)
}

func (s *fakeSurface) ClosePopup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openID = ""
	s.closedCount++
}

type fakeNavigator struct {
	paths []string
}

func (n *fakeNavigator) SetPath(path string) { n.paths = append(n.paths, path) }

type staticIdentity struct {
	uid string
}

func (s staticIdentity) CurrentUID() (string, bool) { return s.uid, s.uid != "" }

func item(id string, lat, lng float64) content.Item {
	return content.Item{ItemID: id, Text: "post " + id, Latitude: lat, Longitude: lng, Status: content.StatusPublished}
}

func newTestRenderer(uid string) (*Renderer, *fakeSurface, *fakeNavigator) {
	surface := newFakeSurface()
	nav := &fakeNavigator{}
	r := NewRenderer(surface, nav, staticIdentity{uid: uid}, "https://mailmap.example.com")
	return r, surface, nav
}

func TestWorkingSetReplaced_SingleItemCentersAndZooms(t *testing.T) {
	r, surface, _ := newTestRenderer("")

	r.WorkingSetReplaced([]content.Item{item("a", 50.45, 30.52)}, "")

	assert.Equal(t, common.LatLng{Latitude: 50.45, Longitude: 30.52}, surface.center)
	assert.Equal(t, singleZoom, surface.zoom)
	assert.True(t, r.HasMarker("a"))
}

func TestWorkingSetReplaced_MultipleItemsFitBounds(t *testing.T) {
	r, surface, _ := newTestRenderer("")

	r.WorkingSetReplaced([]content.Item{
		item("a", 10, 20),
		item("b", -5, 40),
		{ItemID: "bad", Latitude: 1, Longitude: 2}, // valid
	}, "")

	assert.Equal(t, 1, surface.fitCalls)
	assert.Equal(t, 10.0, surface.fitted.North)
	assert.Equal(t, -5.0, surface.fitted.South)
	assert.Equal(t, 40.0, surface.fitted.East)
	assert.Equal(t, 2.0, surface.fitted.West)
}

func TestWorkingSetReplaced_FocusOpensPopup(t *testing.T) {
	r, surface, _ := newTestRenderer("")

	r.WorkingSetReplaced([]content.Item{item("a", 10, 20), item("b", 30, 40)}, "b")

	assert.Equal(t, "b", surface.openID)
	assert.Equal(t, focusZoom, surface.zoom)
	openID, ok := r.OpenPopupID()
	require.True(t, ok)
	assert.Equal(t, "b", openID)
}

func TestWorkingSetReplaced_ClearsPreviousMarkers(t *testing.T) {
	r, surface, _ := newTestRenderer("")

	r.WorkingSetReplaced([]content.Item{item("a", 10, 20)}, "")
	first := surface.created["a"]
	r.WorkingSetReplaced([]content.Item{item("b", 30, 40)}, "")

	assert.True(t, first.removed)
	assert.False(t, r.HasMarker("a"))
	assert.True(t, r.HasMarker("b"))
}

func TestItemAdded_InvalidCoordinatesGetNoMarker(t *testing.T) {
	r, surface, _ := newTestRenderer("")

	bad := content.Item{ItemID: "bad", Latitude: 0, Longitude: 0}
	bad.Latitude = nan()
	r.ItemAdded(bad)
	r.ItemAdded(content.Item{Latitude: 1, Longitude: 2}) // empty id

	assert.False(t, r.HasMarker("bad"))
	assert.False(t, r.HasMarker(""))
	assert.Empty(t, surface.created)
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestMarkerClick_OpensPopupAndRewritesURL(t *testing.T) {
	r, surface, nav := newTestRenderer("viewer-1")

	r.WorkingSetReplaced([]content.Item{item("a", 10, 20)}, "")
	surface.clicks["a"]()

	assert.Equal(t, "a", surface.openID)
	assert.Equal(t, []string{"/post/a"}, nav.paths)
	assert.Equal(t, "https://mailmap.example.com/post/a", surface.popup.ShareURL)
}

func TestItemUpdated_PatchesOpenPopupInPlace(t *testing.T) {
	r, surface, _ := newTestRenderer("")

	r.WorkingSetReplaced([]content.Item{item("a", 10, 20)}, "a")

	updated := item("a", 10, 20)
	updated.VoteCount = 5
	r.ItemUpdated(updated)

	require.Len(t, surface.setContent, 1)
	assert.Equal(t, "Votes: 5", surface.setContent[0].VoteLabel)
}

func TestItemUpdated_NoOpWhenPopupClosedOrOtherItem(t *testing.T) {
	r, surface, _ := newTestRenderer("")

	r.WorkingSetReplaced([]content.Item{item("a", 10, 20), item("b", 30, 40)}, "a")

	r.ItemUpdated(item("b", 30, 40))
	assert.Empty(t, surface.setContent)
}

func TestItemRemoved_RemovesMarkerAndClosesBoundPopup(t *testing.T) {
	r, surface, _ := newTestRenderer("")

	r.WorkingSetReplaced([]content.Item{item("b", 30, 40)}, "b")
	closedBefore := surface.closedCount
	marker := surface.created["b"]

	r.ItemRemoved("b")

	assert.True(t, marker.removed)
	assert.False(t, r.HasMarker("b"))
	_, open := r.OpenPopupID()
	assert.False(t, open)
	assert.Equal(t, closedBefore+1, surface.closedCount)
}

func TestItemRemoved_UnknownIsNoOp(t *testing.T) {
	r, surface, _ := newTestRenderer("")
	closedBefore := surface.closedCount

	r.ItemRemoved("ghost")

	assert.Equal(t, closedBefore, surface.closedCount)
}
