// Package maprender projects the content store onto the map SDK: marker
// lifecycle, viewport fitting, the per-marker detail popup, and deep-link
// URL rewriting on marker activation.
package maprender

import (
	"log"
	"sync"

	"mailmap/internal/common"
	"mailmap/internal/content"
)

const (
	defaultZoom = 3
	singleZoom  = 10
	focusZoom   = 15
)

// MarkerHandle is the opaque on-map visual object for one item.
type MarkerHandle interface {
	Remove()
}

// MapSurface is the map SDK port: marker primitives, viewport control and
// the single shared popup.
type MapSurface interface {
	CreateMarker(item content.Item, onClick func()) MarkerHandle
	SetViewport(center common.LatLng, zoom int)
	FitBounds(bounds common.GeoBounds)
	OpenPopup(itemID string, popup PopupContent)
	SetPopupContent(popup PopupContent)
	ClosePopup()
}

// Navigator rewrites the browsing context's path without navigation.
type Navigator interface {
	SetPath(path string)
}

// IdentitySource tells the popup builder who is viewing, so owner-only
// controls render correctly.
type IdentitySource interface {
	CurrentUID() (string, bool)
}

// Renderer owns the marker index and the open-popup binding. It is the only
// writer to either.
type Renderer struct {
	surface  MapSurface
	nav      Navigator
	identity IdentitySource
	origin   string

	mu          sync.Mutex
	markers     map[string]MarkerHandle
	snapshots   map[string]content.Item
	openPopupID string
}

func NewRenderer(surface MapSurface, nav Navigator, identity IdentitySource, origin string) *Renderer {
	return &Renderer{
		surface:   surface,
		nav:       nav,
		identity:  identity,
		origin:    origin,
		markers:   make(map[string]MarkerHandle),
		snapshots: make(map[string]content.Item),
	}
}

// WorkingSetReplaced rebuilds everything: clears markers, recomputes the
// viewport, recreates one marker per valid item, and focuses focusID when
// given.
func (r *Renderer) WorkingSetReplaced(items []content.Item, focusID string) {
	r.mu.Lock()
	for id, marker := range r.markers {
		marker.Remove()
		delete(r.markers, id)
		delete(r.snapshots, id)
	}
	r.openPopupID = ""
	r.mu.Unlock()
	r.surface.ClosePopup()

	r.fitViewport(items)

	for _, item := range items {
		r.addMarker(item)
	}

	if focusID != "" {
		r.focusOn(items, focusID)
	}
}

func (r *Renderer) fitViewport(items []content.Item) {
	var valid []content.Item
	for _, item := range items {
		if item.HasValidCoordinates() {
			valid = append(valid, item)
		}
	}

	switch len(valid) {
	case 0:
		if len(items) > 0 {
			log.Println("No valid coordinates in working set to determine bounds")
		}
	case 1:
		r.surface.SetViewport(common.LatLng{Latitude: valid[0].Latitude, Longitude: valid[0].Longitude}, singleZoom)
	default:
		var bounds common.GeoBounds
		for _, item := range valid {
			bounds = bounds.Extend(common.LatLng{Latitude: item.Latitude, Longitude: item.Longitude})
		}
		r.surface.FitBounds(bounds)
	}
}

func (r *Renderer) focusOn(items []content.Item, focusID string) {
	for _, item := range items {
		if item.ItemID != focusID {
			continue
		}
		r.mu.Lock()
		_, hasMarker := r.markers[focusID]
		r.mu.Unlock()
		if !hasMarker {
			return
		}
		r.surface.SetViewport(common.LatLng{Latitude: item.Latitude, Longitude: item.Longitude}, focusZoom)
		r.openPopup(item)
		return
	}
}

// ItemAdded creates a marker for the item. Items with invalid coordinates
// or an empty id stay markerless; that is logged, not fatal.
func (r *Renderer) ItemAdded(item content.Item) {
	r.addMarker(item)
}

func (r *Renderer) addMarker(item content.Item) {
	if !item.HasValidCoordinates() || item.ItemID == "" {
		log.Printf("Skipping marker for item %q: invalid coordinates or missing id", item.ItemID)
		return
	}

	marker := r.surface.CreateMarker(item, func() {
		r.markerClicked(item.ItemID)
	})

	r.mu.Lock()
	if old, dup := r.markers[item.ItemID]; dup {
		old.Remove()
	}
	r.markers[item.ItemID] = marker
	r.snapshots[item.ItemID] = item
	r.mu.Unlock()
}

// markerClicked opens the popup for the item and rewrites the URL to its
// deep link.
func (r *Renderer) markerClicked(itemID string) {
	item, ok := r.lastKnown(itemID)
	if !ok {
		return
	}
	r.openPopup(item)
	if r.nav != nil {
		r.nav.SetPath("/post/" + itemID)
	}
}

// The renderer keeps no item data of its own; the click path re-renders
// from the item captured at marker creation, refreshed by ItemUpdated.
// lastKnown consults the per-marker snapshot map.
func (r *Renderer) lastKnown(itemID string) (content.Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap, ok := r.snapshots[itemID]
	return snap, ok
}

func (r *Renderer) openPopup(item content.Item) {
	popup := r.buildPopup(item)
	r.mu.Lock()
	r.openPopupID = item.ItemID
	r.mu.Unlock()
	r.surface.OpenPopup(item.ItemID, popup)
}

// ItemUpdated refreshes the marker snapshot and, when the item's popup is
// currently open, rebuilds and resets its content in place.
func (r *Renderer) ItemUpdated(item content.Item) {
	r.mu.Lock()
	if _, ok := r.snapshots[item.ItemID]; ok {
		r.snapshots[item.ItemID] = item
	}
	open := r.openPopupID == item.ItemID
	r.mu.Unlock()

	if open {
		r.surface.SetPopupContent(r.buildPopup(item))
	}
}

// ItemRemoved destroys the marker, drops its index entry and closes the
// popup when it was showing the removed item.
func (r *Renderer) ItemRemoved(itemID string) {
	r.mu.Lock()
	marker, ok := r.markers[itemID]
	if ok {
		delete(r.markers, itemID)
		delete(r.snapshots, itemID)
	}
	wasOpen := r.openPopupID == itemID
	if wasOpen {
		r.openPopupID = ""
	}
	r.mu.Unlock()

	if !ok {
		log.Printf("Marker %q not found, nothing to remove", itemID)
	} else {
		marker.Remove()
	}
	if wasOpen {
		r.surface.ClosePopup()
	}
}

// HasMarker reports whether an item currently owns a marker.
func (r *Renderer) HasMarker(itemID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.markers[itemID]
	return ok
}

// OpenPopupID returns the id bound to the currently open popup, if any.
func (r *Renderer) OpenPopupID() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.openPopupID, r.openPopupID != ""
}

func (r *Renderer) buildPopup(item content.Item) PopupContent {
	viewerID := ""
	if r.identity != nil {
		viewerID, _ = r.identity.CurrentUID()
	}
	return BuildPopupContent(item, viewerID, r.origin)
}
