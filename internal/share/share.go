// Package share builds platform share URLs and drives the device's native
// share surface, falling back to the clipboard when everything else fails.
package share

import (
	"errors"
	"fmt"
	"log"
	"net/url"

	"mailmap/internal/common"
)

// NativeSharer is the device's own share surface, when one exists.
type NativeSharer interface {
	Available() bool
	// Share returns common.ErrShareCancelled when the user dismissed the
	// surface; callers treat that as a normal outcome.
	Share(title, text, shareURL string) error
}

// WindowOpener opens a share URL in a new fixed-size browsing context.
type WindowOpener interface {
	OpenWindow(shareURL string, width, height int) error
}

// Clipboard writes text for the fallback path.
type Clipboard interface {
	WriteText(text string) error
}

// Notifier surfaces outcome messages to the user.
type Notifier interface {
	Alert(message string)
}

type Service struct {
	native       NativeSharer
	opener       WindowOpener
	clipboard    Clipboard
	notifier     Notifier
	maxTextLen   int
	windowWidth  int
	windowHeight int
}

func NewService(native NativeSharer, opener WindowOpener, clipboard Clipboard, notifier Notifier, maxTextLen, windowWidth, windowHeight int) *Service {
	return &Service{
		native:       native,
		opener:       opener,
		clipboard:    clipboard,
		notifier:     notifier,
		maxTextLen:   maxTextLen,
		windowWidth:  windowWidth,
		windowHeight: windowHeight,
	}
}

// Share sends url/title to the named platform. "native" goes through the
// device share surface when available; everything else opens a templated
// share URL in a new window. On any failure the primary URL is copied to
// the clipboard and the user is told.
func (s *Service) Share(platform, rawURL, title, imageURL string) error {
	title = common.CleanForSharing(title, s.maxTextLen)
	if title == "" {
		title = "Look what I found on MailMap!"
	}

	if platform == "native" && s.native != nil && s.native.Available() {
		err := s.native.Share(title, title, rawURL)
		if err == nil {
			return nil
		}
		if errors.Is(err, common.ErrShareCancelled) {
			log.Println("User cancelled native share")
			return nil
		}
		log.Printf("Native share failed, falling back: %v", err)
	}

	shareURL, err := BuildShareURL(platform, rawURL, title, imageURL)
	if err != nil {
		return s.fallback(rawURL, err)
	}

	if err := s.opener.OpenWindow(shareURL, s.windowWidth, s.windowHeight); err != nil {
		return s.fallback(rawURL, err)
	}
	return nil
}

func (s *Service) fallback(rawURL string, cause error) error {
	s.notifier.Alert(fmt.Sprintf("Share error: %v", cause))
	if s.clipboard != nil {
		if err := s.clipboard.WriteText(rawURL); err != nil {
			log.Printf("Clipboard fallback failed: %v", err)
		} else {
			s.notifier.Alert("An error occurred. The link was copied to your clipboard.")
		}
	}
	return cause
}

// BuildShareURL templates the destination URL for each supported platform.
// Unknown platforms fail with common.ErrUnsupportedPlatform.
func BuildShareURL(platform, rawURL, title, imageURL string) (string, error) {
	u := url.QueryEscape(rawURL)
	t := url.QueryEscape(title)

	switch platform {
	case "vk":
		return fmt.Sprintf("https://vk.com/share.php?url=%s&title=%s&image=%s", u, t, url.QueryEscape(imageURL)), nil
	case "telegram":
		return fmt.Sprintf("https://t.me/share/url?url=%s&text=%s", u, t), nil
	case "whatsapp":
		return fmt.Sprintf("https://api.whatsapp.com/send?text=%s", url.QueryEscape(title+" "+rawURL)), nil
	case "facebook":
		return fmt.Sprintf("https://www.facebook.com/sharer/sharer.php?u=%s", u), nil
	case "x":
		return fmt.Sprintf("https://x.com/intent/tweet?url=%s&text=%s", u, t), nil
	case "twitter":
		return fmt.Sprintf("https://twitter.com/intent/tweet?url=%s&text=%s", u, t), nil
	default:
		return "", fmt.Errorf("%w: %q", common.ErrUnsupportedPlatform, platform)
	}
}
