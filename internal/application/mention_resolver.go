package application

import (
	"context"
	"regexp"

	"golang.org/x/sync/errgroup"

	"linkbridge/internal/models"
	"linkbridge/internal/repository"
)

var (
	userMentionRe = regexp.MustCompile(`<@!?(\d+)>`)
	roleMentionRe = regexp.MustCompile(`<@&(\d+)>`)
)

type MentionResolver interface {
	Resolve(ctx context.Context, text string, users []models.MentionedUser, roles []models.MentionedRole) string
}

type MentionResolverImpl struct {
	links  repository.IdentityLink
	logger Logger
}

func NewMentionResolverImpl(links repository.IdentityLink, logger Logger) *MentionResolverImpl {
	return &MentionResolverImpl{
		links:  links,
		logger: logger,
	}
}

// Resolve rewrites user and role mention tokens into @names. Tokens for
// entities the event did not list are left as they are.
func (r *MentionResolverImpl) Resolve(ctx context.Context, text string, users []models.MentionedUser, roles []models.MentionedRole) string {
	if len(users) == 0 && len(roles) == 0 {
		return text
	}

	userNames := r.resolveUsers(ctx, users)
	roleNames := make(map[string]string, len(roles))
	for _, role := range roles {
		name := role.Name
		if name == "" {
			name = unknownName
		}
		roleNames[role.ID] = withAt(name)
	}

	text = roleMentionRe.ReplaceAllStringFunc(text, func(token string) string {
		if name, ok := roleNames[roleMentionRe.FindStringSubmatch(token)[1]]; ok {
			return name
		}
		return token
	})
	return userMentionRe.ReplaceAllStringFunc(text, func(token string) string {
		if name, ok := userNames[userMentionRe.FindStringSubmatch(token)[1]]; ok {
			return name
		}
		return token
	})
}

// resolveUsers looks up every distinct user once, concurrently.
func (r *MentionResolverImpl) resolveUsers(ctx context.Context, users []models.MentionedUser) map[string]string {
	distinct := make([]models.MentionedUser, 0, len(users))
	seen := make(map[string]struct{}, len(users))
	for _, u := range users {
		if _, ok := seen[u.ID]; ok {
			continue
		}
		seen[u.ID] = struct{}{}
		distinct = append(distinct, u)
	}

	names := make([]string, len(distinct))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(mentionLookupLimit)
	for i, u := range distinct {
		g.Go(func() error {
			names[i] = withAt(r.nameFor(gctx, u))
			return nil
		})
	}
	_ = g.Wait()

	resolved := make(map[string]string, len(distinct))
	for i, u := range distinct {
		resolved[u.ID] = names[i]
	}
	return resolved
}

func (r *MentionResolverImpl) nameFor(ctx context.Context, u models.MentionedUser) string {
	link, err := r.links.FindBySourceID(ctx, u.ID)
	if err != nil {
		r.logger.Warn("Mention lookup for %s failed, using platform name: %v", u.ID, err)
	} else if link.Linked() && link.DisplayName != "" {
		return link.DisplayName
	}

	switch {
	case u.Nickname != "":
		return u.Nickname
	case u.GlobalName != "":
		return u.GlobalName
	case u.Username != "":
		return u.Username
	default:
		return unknownName
	}
}
