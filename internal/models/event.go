package models

type Platform int

const (
	PlatformSource Platform = iota + 1
	PlatformDest
)

func (p Platform) String() string {
	switch p {
	case PlatformSource:
		return "source"
	case PlatformDest:
		return "dest"
	default:
		return "unknown"
	}
}

// Event is an inbound platform event after it has been adapted at the
// delivery boundary. The set of implementations is closed.
type Event interface {
	isEvent()
}

// LinkRequest from the source platform asks for a fresh code; from the
// destination platform it redeems Code for DestUser.
type LinkRequest struct {
	Platform     Platform
	SourceUserID string
	DestUser     DestUser
	Code         string
}

type UnlinkRequest struct {
	Platform     Platform
	SourceUserID string
	DestUserID   int64
}

// StatusRequest asks which identity the requester is linked to.
type StatusRequest struct {
	Platform     Platform
	SourceUserID string
	DestUserID   int64
}

// ChatMessage is a source-platform message that may be relayed.
type ChatMessage struct {
	ChannelID string

	AuthorID         string
	AuthorUsername   string
	AuthorGlobalName string
	AuthorNickname   string
	AuthorIsBot      bool
	AuthorIsSystem   bool

	Text             string
	MentionedUsers   []MentionedUser
	MentionedRoles   []MentionedRole
	MentionsEveryone bool
	Attachments      []Attachment
}

func (*LinkRequest) isEvent()   {}
func (*UnlinkRequest) isEvent() {}
func (*StatusRequest) isEvent() {}
func (*ChatMessage) isEvent()   {}

// AuthorDisplayName prefers the guild nickname, then the global name, then
// the account name.
func (m *ChatMessage) AuthorDisplayName() string {
	switch {
	case m.AuthorNickname != "":
		return m.AuthorNickname
	case m.AuthorGlobalName != "":
		return m.AuthorGlobalName
	default:
		return m.AuthorUsername
	}
}

func (m *ChatMessage) HasMentions() bool {
	return len(m.MentionedUsers) > 0 || len(m.MentionedRoles) > 0 || m.MentionsEveryone
}
