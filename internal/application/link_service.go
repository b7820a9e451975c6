package application

import (
	"context"
	"errors"
	"fmt"

	"linkbridge/internal/models"
	"linkbridge/internal/repository"
)

type LinkService interface {
	IssueCode(sourceID string) (models.LinkCode, error)
	Redeem(ctx context.Context, code string, user models.DestUser) (*LinkResult, error)
	UnlinkBySource(ctx context.Context, sourceID string) error
	UnlinkByDest(ctx context.Context, destID int64) error
	LinkBySource(ctx context.Context, sourceID string) (*models.IdentityLink, error)
	LinkByDest(ctx context.Context, destID int64) (*models.IdentityLink, error)
}

type LinkResult struct {
	Link *models.IdentityLink
	// Replaced is set when the destination account was linked to another
	// source account before this redemption.
	Replaced bool
}

type LinkServiceImpl struct {
	links  repository.IdentityLink
	codes  repository.LinkCodes
	logger Logger
}

func NewLinkServiceImpl(links repository.IdentityLink, codes repository.LinkCodes, logger Logger) *LinkServiceImpl {
	return &LinkServiceImpl{
		links:  links,
		codes:  codes,
		logger: logger,
	}
}

func (s *LinkServiceImpl) IssueCode(sourceID string) (models.LinkCode, error) {
	lc, err := s.codes.Issue(sourceID)
	if err != nil {
		return models.LinkCode{}, fmt.Errorf("generate link code: %w", err)
	}
	s.logger.Debug("Issued link code for source user %s, expires at %s", sourceID, lc.ExpiresAt.Format("15:04:05"))
	return lc, nil
}

func (s *LinkServiceImpl) Redeem(ctx context.Context, code string, user models.DestUser) (*LinkResult, error) {
	lc, err := s.codes.Redeem(code)
	if err != nil {
		return nil, err
	}

	existing, err := s.links.FindByDestID(ctx, user.ID)
	if err != nil {
		s.reinstate(lc)
		return nil, err
	}

	link, err := s.links.UpsertLink(ctx, lc.OwnerID, user.ID, user.DisplayName())
	if err != nil {
		s.reinstate(lc)
		return nil, err
	}

	replaced := existing.Linked() && *existing.SourceID != lc.OwnerID
	s.logger.Info("Linked source user %s to dest user %d (replaced=%t)", lc.OwnerID, user.ID, replaced)
	return &LinkResult{Link: link, Replaced: replaced}, nil
}

func (s *LinkServiceImpl) UnlinkBySource(ctx context.Context, sourceID string) error {
	cleared, err := s.links.ClearBySourceID(ctx, sourceID)
	if err != nil {
		return err
	}
	if !cleared {
		return ErrNoExistingLink
	}
	s.logger.Info("Unlinked source user %s", sourceID)
	return nil
}

func (s *LinkServiceImpl) UnlinkByDest(ctx context.Context, destID int64) error {
	cleared, err := s.links.ClearByDestID(ctx, destID)
	if err != nil {
		return err
	}
	if !cleared {
		return ErrNoExistingLink
	}
	s.logger.Info("Unlinked dest user %d", destID)
	return nil
}

func (s *LinkServiceImpl) LinkBySource(ctx context.Context, sourceID string) (*models.IdentityLink, error) {
	return s.links.FindBySourceID(ctx, sourceID)
}

// LinkByDest returns nil for a row whose link has been cleared.
func (s *LinkServiceImpl) LinkByDest(ctx context.Context, destID int64) (*models.IdentityLink, error) {
	link, err := s.links.FindByDestID(ctx, destID)
	if err != nil || !link.Linked() {
		return nil, err
	}
	return link, nil
}

// reinstate gives the user another chance with the same code when the
// store failed after the code was consumed.
func (s *LinkServiceImpl) reinstate(lc models.LinkCode) {
	if !s.codes.Reinstate(lc) {
		s.logger.Warn("Could not reinstate link code for source user %s", lc.OwnerID)
	}
}

func isExpectedLinkOutcome(err error) bool {
	return errors.Is(err, ErrCodeNotFound) || errors.Is(err, ErrNoExistingLink)
}
