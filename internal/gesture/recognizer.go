// Package gesture turns raw pointer, drop and paste input on the map
// surface into content-creation intents.
package gesture

import (
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"mailmap/internal/common"
)

// ImageFile is a captured binary image payload from a drop or paste.
type ImageFile struct {
	Name     string
	MIMEType string
	Data     []byte
}

func (f ImageFile) IsImage() bool {
	return strings.HasPrefix(f.MIMEType, "image/")
}

// DialogOpener receives the "open add-content dialog" intent. A nil file
// means the user will pick one manually.
type DialogOpener interface {
	OpenAdd(location common.LatLng, file *ImageFile)
}

// Notifier shows user-visible messages for rejected input.
type Notifier interface {
	Alert(message string)
}

// Recognizer classifies a pointer stream into long-press events and
// handles drop/paste image capture independently of the pointer state.
//
// Pointer states: idle -> pressing -> fired, cancelled-by-move, or
// released-early.
type Recognizer struct {
	longPressDuration time.Duration
	moveThresholdPx   float64
	opener            DialogOpener
	notifier          Notifier

	mu          sync.Mutex
	pressing    bool
	fired       bool
	startScreen common.ScreenPoint
	startGeo    common.LatLng
	timer       *time.Timer
}

func NewRecognizer(longPressDuration time.Duration, moveThresholdPx float64, opener DialogOpener, notifier Notifier) *Recognizer {
	return &Recognizer{
		longPressDuration: longPressDuration,
		moveThresholdPx:   moveThresholdPx,
		opener:            opener,
		notifier:          notifier,
	}
}

// PointerDown starts a press at screen position s over geo-location geo.
func (r *Recognizer) PointerDown(s common.ScreenPoint, geo common.LatLng) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopTimerLocked()
	r.pressing = true
	r.fired = false
	r.startScreen = s
	r.startGeo = geo

	r.timer = time.AfterFunc(r.longPressDuration, r.longPressElapsed)
}

func (r *Recognizer) longPressElapsed() {
	r.mu.Lock()
	if !r.pressing || r.fired {
		r.mu.Unlock()
		return
	}
	r.fired = true
	geo := r.startGeo
	r.mu.Unlock()

	log.Printf("Long press detected at %v, opening add dialog", geo)
	r.opener.OpenAdd(geo, nil)
}

// PointerMove cancels the pending long press once the pointer has strayed
// at least the pixel threshold from where it went down.
func (r *Recognizer) PointerMove(s common.ScreenPoint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.pressing {
		return
	}
	dx := math.Abs(s.X - r.startScreen.X)
	dy := math.Abs(s.Y - r.startScreen.Y)
	if dx >= r.moveThresholdPx || dy >= r.moveThresholdPx {
		r.stopTimerLocked()
	}
}

// PointerUp ends the press. A release before the duration elapses fires
// nothing.
func (r *Recognizer) PointerUp() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopTimerLocked()
	r.pressing = false
}

func (r *Recognizer) stopTimerLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// HandleDrop converts a dropped image at pixel position p into a
// geo-located add intent by interpolating across the current viewport.
// Drops outside the viewport rectangle are rejected with a user-visible
// message and no state change.
func (r *Recognizer) HandleDrop(file ImageFile, p common.ScreenPoint, viewport common.Viewport) error {
	if !file.IsImage() {
		err := common.NewValidationError("Please drop an image file (e.g., JPG, PNG).")
		r.notifier.Alert(err.Message)
		return err
	}
	if !viewport.Rect.Contains(p) {
		err := common.NewValidationError("Dropped outside the map area or location could not be determined.")
		r.notifier.Alert(err.Message)
		return err
	}
	if viewport.Bounds.IsEmpty() {
		err := common.NewValidationError("Map bounds are not available. Cannot determine drop location.")
		r.notifier.Alert(err.Message)
		return err
	}

	loc := InterpolateDropLocation(p, viewport)
	log.Printf("Dropped image %q resolved to %v", file.Name, loc)
	r.opener.OpenAdd(loc, &file)
	return nil
}

// HandlePaste accepts a pasted image with the viewport center as its
// target, since a paste carries no cursor position. Non-image clipboard
// payloads are ignored.
func (r *Recognizer) HandlePaste(file ImageFile, mapCenter common.LatLng) {
	if !file.IsImage() {
		log.Println("No image found in clipboard for pasting")
		return
	}
	log.Printf("Pasted image %q, using map center %v", file.Name, mapCenter)
	r.opener.OpenAdd(mapCenter, &file)
}

// InterpolateDropLocation maps a pixel offset to geo-coordinates:
// longitude interpolates west to east with the horizontal fraction,
// latitude interpolates north to south with the vertical fraction
// (pixel Y grows downward while latitude decreases).
func InterpolateDropLocation(p common.ScreenPoint, viewport common.Viewport) common.LatLng {
	lngRatio := p.X / viewport.Rect.Width
	latRatio := p.Y / viewport.Rect.Height

	return common.LatLng{
		Latitude:  viewport.Bounds.North - viewport.Bounds.LatSpan()*latRatio,
		Longitude: viewport.Bounds.West + viewport.Bounds.LngSpan()*lngRatio,
	}
}
