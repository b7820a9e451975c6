package application

import (
	"context"
	"fmt"
	"path"
	"strings"

	"linkbridge/internal/models"
)

// MediaSender is the destination platform's per-kind send surface.
type MediaSender interface {
	SendPhoto(ctx context.Context, url, caption string) error
	SendAnimation(ctx context.Context, url, caption string) error
	SendVideo(ctx context.Context, url, caption string) error
	SendDocument(ctx context.Context, url, caption string) error
}

// Destination is the configured destination chat, optionally a thread in it.
type Destination interface {
	SendText(ctx context.Context, text string) error
	MediaSender
}

type MediaDispatcher interface {
	Dispatch(ctx context.Context, attachments []models.Attachment, firstCaption string) (int, error)
}

type MediaDispatcherImpl struct {
	sender MediaSender
}

func NewMediaDispatcherImpl(sender MediaSender) *MediaDispatcherImpl {
	return &MediaDispatcherImpl{sender: sender}
}

// Classify maps an attachment onto the send primitive it needs. A .gif file
// name only decides when the content type is missing or generic.
func Classify(a models.Attachment) models.MediaKind {
	contentType := strings.ToLower(strings.TrimSpace(a.ContentType))
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}

	if isGenericContentType(contentType) {
		if strings.EqualFold(path.Ext(a.Filename), ".gif") {
			return models.MediaAnimation
		}
	}

	switch {
	case contentType == "image/gif":
		return models.MediaAnimation
	case strings.HasPrefix(contentType, "image/"):
		return models.MediaImage
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaVideo
	default:
		return models.MediaDocument
	}
}

// Dispatch sends attachments in order. Only the first carries firstCaption.
// The first failure stops the remaining sends; the returned count is the
// number of attachments delivered before it.
func (d *MediaDispatcherImpl) Dispatch(ctx context.Context, attachments []models.Attachment, firstCaption string) (int, error) {
	for i, a := range attachments {
		caption := ""
		if i == 0 {
			caption = firstCaption
		}

		kind := Classify(a)
		if err := d.send(ctx, kind, a.URL, caption); err != nil {
			return i, fmt.Errorf("%w: %s %d of %d (%s): %w", ErrSendFailed, kind, i+1, len(attachments), a.Filename, err)
		}
	}
	return len(attachments), nil
}

func (d *MediaDispatcherImpl) send(ctx context.Context, kind models.MediaKind, url, caption string) error {
	switch kind {
	case models.MediaImage:
		return d.sender.SendPhoto(ctx, url, caption)
	case models.MediaAnimation:
		return d.sender.SendAnimation(ctx, url, caption)
	case models.MediaVideo:
		return d.sender.SendVideo(ctx, url, caption)
	default:
		return d.sender.SendDocument(ctx, url, caption)
	}
}
