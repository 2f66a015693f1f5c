// Package modal drives the shared add/edit dialog. One dialog instance is
// created lazily on first open and reused for every subsequent open, in
// either mode.
package modal

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"mailmap/internal/auth"
	"mailmap/internal/backend"
	"mailmap/internal/common"
	"mailmap/internal/content"
	"mailmap/internal/gesture"
)

// Mode selects which flow the dialog is running.
type Mode int

const (
	ModeAdd Mode = iota
	ModeEdit
)

// Backend is the slice of the REST client the dialog needs.
type Backend interface {
	FetchItem(ctx context.Context, itemID string) (content.Item, error)
	EditItem(ctx context.Context, itemID, text, imageURL string, id auth.Identity) error
	CreateItem(ctx context.Context, req backend.CreateRequest, id auth.Identity) (backend.CreateResult, error)
}

var _ Backend = (*backend.API)(nil)

// ViewState is everything the dialog view renders.
type ViewState struct {
	Title           string
	SubmitLabel     string
	Description     string
	ImagePreviewURL string
	ShowFilePicker  bool
	PendingFileName string
}

// View is the dialog surface. Show may be called repeatedly on the same
// instance; SetBusy disables the submit control while a request runs.
type View interface {
	Show(state ViewState)
	Hide()
	SetBusy(busy bool)
}

// ViewFactory builds the dialog on first use.
type ViewFactory func() View

// Notifier surfaces user-visible messages.
type Notifier interface {
	Alert(message string)
}

// draft is the in-progress add submission. Opening the dialog again
// discards it, so a later image capture replaces an earlier one.
type draft struct {
	location    common.LatLng
	hasLocation bool
	file        *gesture.ImageFile
	description string
}

type Controller struct {
	gate       *auth.Gate
	api        Backend
	store      *content.Store
	notifier   Notifier
	newView    ViewFactory
	maxTextLen int

	mu           sync.Mutex
	view         View
	mode         Mode
	targetID     string
	draft        draft
	editImageURL string
	busy         bool
}

func NewController(gate *auth.Gate, api Backend, store *content.Store, notifier Notifier, newView ViewFactory, maxTextLen int) *Controller {
	return &Controller{
		gate:       gate,
		api:        api,
		store:      store,
		notifier:   notifier,
		newView:    newView,
		maxTextLen: maxTextLen,
	}
}

var _ gesture.DialogOpener = (*Controller)(nil)

func (c *Controller) ensureViewLocked() View {
	if c.view == nil {
		c.view = c.newView()
	}
	return c.view
}

// OpenAdd opens the dialog in add mode for the given location. A non-nil
// file arrives pre-attached (drop or paste) and hides the picker; any
// earlier unsubmitted draft is discarded.
func (c *Controller) OpenAdd(location common.LatLng, file *gesture.ImageFile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mode = ModeAdd
	c.targetID = ""
	c.editImageURL = ""
	c.draft = draft{location: location, hasLocation: true, file: file}

	state := ViewState{
		Title:          "Add Photo",
		SubmitLabel:    "Submit",
		ShowFilePicker: file == nil,
	}
	if file != nil {
		state.PendingFileName = file.Name
	}
	c.ensureViewLocked().Show(state)
}

// OpenEdit fetches the item fresh from the backend so the form never shows
// stale fields, then opens the dialog in edit mode.
func (c *Controller) OpenEdit(ctx context.Context, itemID string) error {
	item, err := c.api.FetchItem(ctx, itemID)
	if err != nil {
		c.notifier.Alert("Error loading post data. Please try again.")
		return fmt.Errorf("loading item %s for edit: %w", itemID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.mode = ModeEdit
	c.targetID = itemID
	c.editImageURL = item.ImageURL
	c.draft = draft{description: item.Text}

	c.ensureViewLocked().Show(ViewState{
		Title:           "Edit Post",
		SubmitLabel:     "Save Changes",
		Description:     item.Text,
		ImagePreviewURL: item.ImageURL,
		ShowFilePicker:  item.ImageURL == "",
	})
	return nil
}

// SetDescription mirrors the text field back into the draft.
func (c *Controller) SetDescription(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.description = text
}

// SelectFile attaches a picker-chosen file to the add draft, replacing
// whatever was attached before.
func (c *Controller) SelectFile(file *gesture.ImageFile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.file = file
}

// Cancel closes the dialog and discards the draft.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = draft{}
	c.targetID = ""
	if c.view != nil {
		c.view.Hide()
	}
}

// Submit runs whichever flow the dialog was opened in. The submit control
// is disabled for the duration and re-enabled afterwards regardless of
// outcome.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return nil
	}
	c.busy = true
	mode := c.mode
	view := c.ensureViewLocked()
	c.mu.Unlock()

	view.SetBusy(true)
	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
		view.SetBusy(false)
	}()

	if mode == ModeEdit {
		return c.submitEdit(ctx)
	}
	return c.submitAdd(ctx)
}

func (c *Controller) submitAdd(ctx context.Context) error {
	c.mu.Lock()
	d := c.draft
	c.mu.Unlock()

	if d.file == nil {
		c.notifier.Alert("Please select a photo to upload.")
		return common.NewValidationError("no photo selected")
	}
	if !d.hasLocation {
		c.notifier.Alert("Error: Location not selected for photo. Please try again.")
		return common.NewValidationError("no location for photo")
	}
	if len([]rune(d.description)) > c.maxTextLen {
		c.notifier.Alert(fmt.Sprintf("The text must not exceed %d characters.", c.maxTextLen))
		return common.NewValidationError("text too long")
	}

	// Anonymous submissions are allowed; the backend falls back to the
	// "anonymous" user id when none is set.
	id, _ := c.gate.Current()

	result, err := c.api.CreateItem(ctx, backend.CreateRequest{
		Text:      d.description,
		Latitude:  d.location.Latitude,
		Longitude: d.location.Longitude,
		ImageName: d.file.Name,
		ImageMIME: d.file.MIMEType,
		ImageData: d.file.Data,
	}, id)
	if err != nil {
		c.notifier.Alert(fmt.Sprintf("Upload error: %v", err))
		return err
	}

	if result.Item != nil {
		c.store.Add(*result.Item)
	} else {
		// Only an id came back: show a placeholder immediately so the
		// author sees their own post before moderation publishes it.
		c.store.Add(content.Item{
			ItemID:    result.ContentID,
			Text:      d.description,
			Latitude:  d.location.Latitude,
			Longitude: d.location.Longitude,
			Timestamp: content.NewTimestamp(time.Now()),
			Status:    content.StatusForModeration,
			UserID:    id.UID,
		})
	}

	c.notifier.Alert("Photo added successfully! It will appear after moderation.")
	c.closeAndReset()
	return nil
}

func (c *Controller) submitEdit(ctx context.Context) error {
	c.mu.Lock()
	itemID := c.targetID
	text := c.draft.description
	imageURL := c.editImageURL
	c.mu.Unlock()

	if itemID == "" {
		return common.NewValidationError("no item selected for editing")
	}

	id, err := c.gate.EnsureAuthenticated(ctx)
	if err != nil {
		c.notifier.Alert(fmt.Sprintf("Edit error: %v", err))
		return err
	}

	if err := c.api.EditItem(ctx, itemID, text, imageURL, id); err != nil {
		c.notifier.Alert(fmt.Sprintf("Edit error: %v", err))
		return err
	}

	if _, ok := c.store.ApplyPatch(itemID, content.Patch{Text: &text, ImageURL: &imageURL}); !ok {
		log.Printf("edited item %s is not in the working set", itemID)
	}

	c.notifier.Alert("Post updated successfully!")
	c.closeAndReset()
	return nil
}

func (c *Controller) closeAndReset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = draft{}
	c.targetID = ""
	if c.view != nil {
		c.view.Hide()
	}
}
