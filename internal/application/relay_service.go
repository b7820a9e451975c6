package application

import (
	"context"
	"fmt"
	"strings"

	"linkbridge/internal/models"
)

type RelayService interface {
	ShouldRelay(msg *models.ChatMessage) bool
	Relay(ctx context.Context, msg *models.ChatMessage) (RelayReport, error)
}

// RelayReport describes what reached the destination, including on a
// partial failure.
type RelayReport struct {
	TextSent        bool
	Attachments     int
	AttachmentsSent int
}

type RelayServiceImpl struct {
	dest     Destination
	mentions MentionResolver
	media    MediaDispatcher
	logger   Logger
}

func NewRelayServiceImpl(dest Destination, mentions MentionResolver, media MediaDispatcher, logger Logger) *RelayServiceImpl {
	return &RelayServiceImpl{
		dest:     dest,
		mentions: mentions,
		media:    media,
		logger:   logger,
	}
}

// ShouldRelay keeps only human messages that mention someone.
func (s *RelayServiceImpl) ShouldRelay(msg *models.ChatMessage) bool {
	if msg == nil || msg.AuthorIsBot || msg.AuthorIsSystem {
		return false
	}
	return msg.HasMentions()
}

func (s *RelayServiceImpl) Relay(ctx context.Context, msg *models.ChatMessage) (RelayReport, error) {
	report := RelayReport{Attachments: len(msg.Attachments)}
	author := msg.AuthorDisplayName()
	if author == "" {
		author = unknownName
	}

	body := s.mentions.Resolve(ctx, msg.Text, msg.MentionedUsers, msg.MentionedRoles)
	hasText := strings.TrimSpace(body) != ""

	firstCaption := ""
	if hasText {
		if err := s.dest.SendText(ctx, authorPrefix+author+"\n"+body); err != nil {
			return report, fmt.Errorf("%w: text: %w", ErrSendFailed, err)
		}
		report.TextSent = true
	} else {
		firstCaption = authorPrefix + author
	}

	if len(msg.Attachments) == 0 {
		return report, nil
	}

	sent, err := s.media.Dispatch(ctx, msg.Attachments, firstCaption)
	report.AttachmentsSent = sent
	if err != nil {
		return report, err
	}
	return report, nil
}
