package maprender

import (
	"fmt"

	"mailmap/internal/content"
)

// DefaultShareText is used when an item has no text of its own.
const DefaultShareText = "Like me! Post on MailMap"

// SharePlatforms are the destinations offered inside the popup.
var SharePlatforms = []string{"telegram", "x", "whatsapp"}

// PopupContent is the view model for the per-marker detail popup. The map
// surface renders it however its toolkit requires.
type PopupContent struct {
	ItemID           string
	ModerationBanner bool
	ImageURL         string
	VoteLabel        string
	VotingEnabled    bool
	Text             string
	TimestampText    string
	ShareURL         string
	ShareText        string
	ShareImageURL    string
	CanEdit          bool
	CanDelete        bool
	ShowReport       bool
}

// BuildPopupContent assembles the popup for one item as seen by viewerID.
// Edit and delete controls appear only for the owner; the report control is
// hidden while the item is under moderation, and so is voting.
func BuildPopupContent(item content.Item, viewerID, origin string) PopupContent {
	underModeration := item.UnderModeration()

	text := item.Text
	if text == "" {
		text = "Post without text"
	}

	shareText := DefaultShareText
	if item.Text != "" {
		shareText = item.Text
	}

	isOwner := viewerID != "" && item.UserID != "" && viewerID == item.UserID

	return PopupContent{
		ItemID:           item.ItemID,
		ModerationBanner: underModeration,
		ImageURL:         item.ImageURL,
		VoteLabel:        VoteLabel(item.VoteCount),
		VotingEnabled:    !underModeration,
		Text:             text,
		TimestampText:    item.Timestamp.Display(),
		ShareURL:         fmt.Sprintf("%s/post/%s", origin, item.ItemID),
		ShareText:        shareText,
		ShareImageURL:    item.ImageURL,
		CanEdit:          isOwner,
		CanDelete:        isOwner,
		ShowReport:       !underModeration,
	}
}

// VoteLabel formats the visible vote counter.
func VoteLabel(count int) string {
	return fmt.Sprintf("Votes: %d", count)
}
