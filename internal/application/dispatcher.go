package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"linkbridge/internal/models"
)

type NoticeKind int

const (
	NoticeCodeSent NoticeKind = iota + 1
	NoticeDeliveryFailed
	NoticeInvalidCode
	NoticeMissingCode
	NoticeRelinkWarning
	NoticeLinked
	NoticeUnlinked
	NoticeNoLink
	NoticeLinkStatus
	NoticeFailure
	NoticeRelayFailed
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeCodeSent:
		return "code_sent"
	case NoticeDeliveryFailed:
		return "delivery_failed"
	case NoticeInvalidCode:
		return "invalid_code"
	case NoticeMissingCode:
		return "missing_code"
	case NoticeRelinkWarning:
		return "relink_warning"
	case NoticeLinked:
		return "linked"
	case NoticeUnlinked:
		return "unlinked"
	case NoticeNoLink:
		return "no_link"
	case NoticeLinkStatus:
		return "link_status"
	case NoticeFailure:
		return "failure"
	case NoticeRelayFailed:
		return "relay_failed"
	default:
		return "unknown"
	}
}

// Notice is a user-facing outcome. The delivery layer renders it.
type Notice struct {
	Kind NoticeKind
	// Link is set for NoticeLinked and NoticeLinkStatus. A nil Link with
	// NoticeLinkStatus means the requester is not linked.
	Link *models.IdentityLink
	TTL  time.Duration
}

// Responder answers the user that triggered an event.
type Responder interface {
	// DeliverCode sends the code privately. An error means the user cannot
	// receive private messages.
	DeliverCode(ctx context.Context, code models.LinkCode) error
	Notify(ctx context.Context, notice Notice) error
}

type Dispatcher interface {
	Handle(ctx context.Context, event models.Event, r Responder) error
}

type DispatcherImpl struct {
	links  LinkService
	relay  RelayService
	ttl    time.Duration
	logger Logger
}

func NewDispatcherImpl(links LinkService, relay RelayService, ttl time.Duration, logger Logger) *DispatcherImpl {
	return &DispatcherImpl{
		links:  links,
		relay:  relay,
		ttl:    ttl,
		logger: logger,
	}
}

// Handle runs one inbound event to completion. The returned error is the
// failure that was already reported to the user, if any.
func (d *DispatcherImpl) Handle(ctx context.Context, event models.Event, r Responder) error {
	eventID := uuid.NewString()

	switch ev := event.(type) {
	case *models.LinkRequest:
		if ev.Platform == models.PlatformSource {
			return d.requestCode(ctx, eventID, ev, r)
		}
		return d.redeemCode(ctx, eventID, ev, r)
	case *models.UnlinkRequest:
		return d.unlink(ctx, eventID, ev, r)
	case *models.StatusRequest:
		return d.status(ctx, eventID, ev, r)
	case *models.ChatMessage:
		return d.relayMessage(ctx, eventID, ev, r)
	default:
		return fmt.Errorf("unsupported event %T", event)
	}
}

func (d *DispatcherImpl) requestCode(ctx context.Context, eventID string, ev *models.LinkRequest, r Responder) error {
	lc, err := d.links.IssueCode(ev.SourceUserID)
	if err != nil {
		d.logger.Error("[%s] issue code for %s: %v", eventID, ev.SourceUserID, err)
		d.notify(ctx, eventID, r, Notice{Kind: NoticeFailure})
		return err
	}

	if err := r.DeliverCode(ctx, lc); err != nil {
		// The code stays outstanding until its timer fires.
		d.logger.Info("[%s] could not deliver code privately to %s: %v", eventID, ev.SourceUserID, err)
		d.notify(ctx, eventID, r, Notice{Kind: NoticeDeliveryFailed})
		return fmt.Errorf("%w: %w", ErrPrivateDeliveryFailed, err)
	}

	d.logger.Info("[%s] link code delivered to %s", eventID, ev.SourceUserID)
	d.notify(ctx, eventID, r, Notice{Kind: NoticeCodeSent, TTL: d.ttl})
	return nil
}

func (d *DispatcherImpl) redeemCode(ctx context.Context, eventID string, ev *models.LinkRequest, r Responder) error {
	if ev.Code == "" {
		d.notify(ctx, eventID, r, Notice{Kind: NoticeMissingCode})
		return nil
	}

	result, err := d.links.Redeem(ctx, ev.Code, ev.DestUser)
	switch {
	case errors.Is(err, ErrCodeNotFound):
		d.logger.Info("[%s] dest user %d submitted an invalid code: %v", eventID, ev.DestUser.ID, err)
		d.notify(ctx, eventID, r, Notice{Kind: NoticeInvalidCode})
		return nil
	case err != nil:
		d.logger.Error("[%s] redeem code for dest user %d: %v", eventID, ev.DestUser.ID, err)
		d.notify(ctx, eventID, r, Notice{Kind: NoticeFailure})
		return err
	}

	if result.Replaced {
		d.notify(ctx, eventID, r, Notice{Kind: NoticeRelinkWarning})
	}
	d.notify(ctx, eventID, r, Notice{Kind: NoticeLinked, Link: result.Link})
	return nil
}

func (d *DispatcherImpl) unlink(ctx context.Context, eventID string, ev *models.UnlinkRequest, r Responder) error {
	var err error
	if ev.Platform == models.PlatformSource {
		err = d.links.UnlinkBySource(ctx, ev.SourceUserID)
	} else {
		err = d.links.UnlinkByDest(ctx, ev.DestUserID)
	}

	switch {
	case err == nil:
		d.notify(ctx, eventID, r, Notice{Kind: NoticeUnlinked})
		return nil
	case isExpectedLinkOutcome(err):
		d.logger.Info("[%s] unlink from %s: nothing to clear", eventID, ev.Platform)
		d.notify(ctx, eventID, r, Notice{Kind: NoticeNoLink})
		return nil
	default:
		d.logger.Error("[%s] unlink from %s: %v", eventID, ev.Platform, err)
		d.notify(ctx, eventID, r, Notice{Kind: NoticeFailure})
		return err
	}
}

func (d *DispatcherImpl) status(ctx context.Context, eventID string, ev *models.StatusRequest, r Responder) error {
	var (
		link *models.IdentityLink
		err  error
	)
	if ev.Platform == models.PlatformSource {
		link, err = d.links.LinkBySource(ctx, ev.SourceUserID)
	} else {
		link, err = d.links.LinkByDest(ctx, ev.DestUserID)
	}
	if err != nil {
		d.logger.Error("[%s] link status on %s: %v", eventID, ev.Platform, err)
		d.notify(ctx, eventID, r, Notice{Kind: NoticeFailure})
		return err
	}

	d.notify(ctx, eventID, r, Notice{Kind: NoticeLinkStatus, Link: link})
	return nil
}

func (d *DispatcherImpl) relayMessage(ctx context.Context, eventID string, msg *models.ChatMessage, r Responder) error {
	if !d.relay.ShouldRelay(msg) {
		return nil
	}

	report, err := d.relay.Relay(ctx, msg)
	if err != nil {
		d.logger.Error("[%s] relay message from %s in %s: text_sent=%t attachments=%d/%d: %v",
			eventID, msg.AuthorID, msg.ChannelID, report.TextSent, report.AttachmentsSent, report.Attachments, err)
		d.notify(ctx, eventID, r, Notice{Kind: NoticeRelayFailed})
		return err
	}

	d.logger.Debug("[%s] relayed message from %s: text_sent=%t attachments=%d",
		eventID, msg.AuthorID, report.TextSent, report.AttachmentsSent)
	return nil
}

func (d *DispatcherImpl) notify(ctx context.Context, eventID string, r Responder, n Notice) {
	if err := r.Notify(ctx, n); err != nil {
		d.logger.Warn("[%s] notify %s: %v", eventID, n.Kind, err)
	}
}
