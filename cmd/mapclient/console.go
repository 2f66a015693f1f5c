package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"mailmap/internal/common"
	"mailmap/internal/content"
	"mailmap/internal/maprender"
	"mailmap/internal/modal"
)

// The console frontend renders map and dialog state as log lines. It exists
// so the full client graph can run headless, against the dev backend.

type consoleHandle struct {
	itemID string
}

func (h consoleHandle) Remove() {
	log.Printf("[map] marker removed: %s", h.itemID)
}

type consoleSurface struct{}

func (consoleSurface) CreateMarker(item content.Item, onClick func()) maprender.MarkerHandle {
	log.Printf("[map] marker %s at (%.4f, %.4f) %q", item.ItemID, item.Latitude, item.Longitude, item.MarkerLabel())
	return consoleHandle{itemID: item.ItemID}
}

func (consoleSurface) SetViewport(center common.LatLng, zoom int) {
	log.Printf("[map] viewport center (%.4f, %.4f) zoom %d", center.Latitude, center.Longitude, zoom)
}

func (consoleSurface) FitBounds(bounds common.GeoBounds) {
	log.Printf("[map] fit bounds N%.4f S%.4f E%.4f W%.4f", bounds.North, bounds.South, bounds.East, bounds.West)
}

func (consoleSurface) OpenPopup(itemID string, popup maprender.PopupContent) {
	log.Printf("[map] popup open for %s: %q (%s)", itemID, popup.Text, popup.VoteLabel)
}

func (consoleSurface) SetPopupContent(popup maprender.PopupContent) {
	log.Printf("[map] popup refreshed: %q (%s)", popup.Text, popup.VoteLabel)
}

func (consoleSurface) ClosePopup() {
	log.Println("[map] popup closed")
}

type consoleNav struct {
	path string
}

func (n *consoleNav) Path() string { return n.path }

func (n *consoleNav) SetPath(p string) {
	n.path = p
	log.Printf("[nav] path is now %s", p)
}

type consoleView struct{}

func (consoleView) Show(state modal.ViewState) {
	log.Printf("[dialog] %s (%s)", state.Title, state.SubmitLabel)
}

func (consoleView) Hide() {
	log.Println("[dialog] hidden")
}

func (consoleView) SetBusy(busy bool) {
	log.Printf("[dialog] busy=%v", busy)
}

// consolePrompter talks through stdin/stdout.
type consolePrompter struct {
	in *bufio.Scanner
}

func newConsolePrompter() *consolePrompter {
	return &consolePrompter{in: bufio.NewScanner(os.Stdin)}
}

func (p *consolePrompter) Alert(message string) {
	fmt.Println("! " + message)
}

func (p *consolePrompter) Confirm(message string) bool {
	fmt.Print(message + " [y/N] ")
	if !p.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(p.in.Text()))
	return answer == "y" || answer == "yes"
}

func (p *consolePrompter) Prompt(message string) (string, bool) {
	fmt.Print(message + " ")
	if !p.in.Scan() {
		return "", false
	}
	return p.in.Text(), true
}

type consoleSharer struct{}

func (consoleSharer) Available() bool { return false }

func (consoleSharer) Share(title, text, url string) error {
	return fmt.Errorf("native sharing is not available on the console")
}

type consoleWindowOpener struct{}

func (consoleWindowOpener) OpenWindow(url string, width, height int) error {
	log.Printf("[share] open %s (%dx%d)", url, width, height)
	return nil
}

type consoleClipboard struct{}

func (consoleClipboard) WriteText(text string) error {
	log.Printf("[clipboard] %s", text)
	return nil
}
