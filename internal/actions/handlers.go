// Package actions implements the user-facing operations on content: vote,
// report, delete and share. Each handler waits for an identity, calls the
// backend, and reflects the outcome into the content store.
package actions

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"mailmap/internal/auth"
	"mailmap/internal/backend"
	"mailmap/internal/common"
	"mailmap/internal/content"
)

// BackendAPI is the slice of the REST client the handlers need.
type BackendAPI interface {
	Vote(ctx context.Context, itemID string, value int, id auth.Identity) (int, error)
	Report(ctx context.Context, itemID, reason string, id auth.Identity) error
	DeleteItem(ctx context.Context, itemID string, id auth.Identity) error
}

var _ BackendAPI = (*backend.API)(nil)

// Navigator reads and rewrites the browsing context's path.
type Navigator interface {
	Path() string
	SetPath(path string)
}

// UserPrompter covers the alert/confirm/prompt surfaces the handlers talk
// through.
type UserPrompter interface {
	Alert(message string)
	Confirm(message string) bool
	Prompt(message string) (string, bool)
}

// Sharer is the share service; it needs no identity.
type Sharer interface {
	Share(platform, rawURL, title, imageURL string) error
}

type Handlers struct {
	gate          *auth.Gate
	api           BackendAPI
	store         *content.Store
	nav           Navigator
	ui            UserPrompter
	sharer        Sharer
	minReasonLen  int
	redirectDelay time.Duration

	mu   sync.Mutex
	busy map[string]bool
}

func NewHandlers(gate *auth.Gate, api BackendAPI, store *content.Store, nav Navigator, ui UserPrompter, sharer Sharer, minReasonLen int) *Handlers {
	return &Handlers{
		gate:          gate,
		api:           api,
		store:         store,
		nav:           nav,
		ui:            ui,
		sharer:        sharer,
		minReasonLen:  minReasonLen,
		redirectDelay: time.Second,
		busy:          make(map[string]bool),
	}
}

// IsBusy reports whether the control for the given key is disabled because
// a request is in flight. The UI mirrors this as a disabled button.
func (h *Handlers) IsBusy(key string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.busy[key]
}

// acquire disables a control; the returned release always re-enables it,
// success or failure.
func (h *Handlers) acquire(key string) (release func(), ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.busy[key] {
		return nil, false
	}
	h.busy[key] = true
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.busy, key)
	}, true
}

// Vote submits a fresh signed unit vote; there is no toggle or undo. On
// success the server's authoritative count is patched into the store.
func (h *Handlers) Vote(ctx context.Context, itemID string, value int) error {
	if itemID == "" || value == 0 {
		return common.NewValidationError("missing required parameters")
	}

	if item, ok := h.store.Get(itemID); ok && item.UnderModeration() {
		// Moderation blocks voting outright rather than only dimming the
		// buttons.
		return common.NewValidationError("voting is disabled while the post is under moderation")
	}

	release, ok := h.acquire("vote:" + itemID)
	if !ok {
		return nil
	}
	defer release()

	id, err := h.gate.EnsureAuthenticated(ctx)
	if err != nil {
		h.ui.Alert(fmt.Sprintf("Vote error: %v", err))
		return err
	}

	newCount, err := h.api.Vote(ctx, itemID, value, id)
	if err != nil {
		h.ui.Alert(fmt.Sprintf("Vote error: %v", err))
		return err
	}

	h.store.ApplyPatch(itemID, content.Patch{VoteCount: &newCount})
	return nil
}

// Report prompts for a reason and files a moderation report. An empty or
// cancelled prompt is a silent no-op; a too-short reason is a validation
// failure. Reports mutate nothing client-side.
func (h *Handlers) Report(ctx context.Context, itemID string) error {
	release, ok := h.acquire("report:" + itemID)
	if !ok {
		return nil
	}
	defer release()

	id, err := h.gate.EnsureAuthenticated(ctx)
	if err != nil {
		h.ui.Alert(fmt.Sprintf("Report error: %v", err))
		return err
	}

	reason, ok := h.ui.Prompt("Please state the reason for your report:")
	if !ok || strings.TrimSpace(reason) == "" {
		return nil
	}
	if err := common.ValidateReportReason(reason, h.minReasonLen); err != nil {
		h.ui.Alert(fmt.Sprintf("The reason must contain at least %d characters", h.minReasonLen))
		return err
	}

	if err := h.api.Report(ctx, itemID, strings.TrimSpace(reason), id); err != nil {
		h.ui.Alert(fmt.Sprintf("Report error: %v", err))
		return err
	}

	h.ui.Alert("Thank you! Your report has been sent to the moderators.")
	return nil
}

// Delete asks for two explicit confirmations before touching the network.
// On success the item leaves the store (which removes its marker and
// closes its popup) and any deep link to it navigates back to the root.
func (h *Handlers) Delete(ctx context.Context, itemID string) error {
	if itemID == "" {
		return common.NewValidationError("no item id provided for deletion")
	}

	id, err := h.gate.EnsureAuthenticated(ctx)
	if err != nil {
		h.ui.Alert(fmt.Sprintf("Delete error: %v", err))
		return err
	}

	if !h.ui.Confirm("Do you really want to delete this post?") {
		return nil
	}
	if !h.ui.Confirm("This action cannot be undone. Continue?") {
		return nil
	}

	release, ok := h.acquire("delete:" + itemID)
	if !ok {
		return nil
	}
	defer release()

	if err := h.api.DeleteItem(ctx, itemID, id); err != nil {
		h.ui.Alert(fmt.Sprintf("Delete error: %v", err))
		return err
	}

	h.store.Remove(itemID)
	h.ui.Alert("The post was deleted.")

	if h.nav != nil && strings.HasPrefix(h.nav.Path(), "/post/"+itemID) {
		nav := h.nav
		time.AfterFunc(h.redirectDelay, func() {
			nav.SetPath("/")
		})
	}
	return nil
}

// Share needs no identity. Failures inside the share service already end
// in the clipboard fallback; here they are only logged.
func (h *Handlers) Share(platform, rawURL, title, imageURL string) error {
	err := h.sharer.Share(platform, rawURL, title, imageURL)
	if err != nil {
		log.Printf("Share error: %v", err)
	}
	return err
}
