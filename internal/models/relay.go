package models

type MediaKind int

const (
	MediaDocument MediaKind = iota
	MediaImage
	MediaAnimation
	MediaVideo
)

func (k MediaKind) String() string {
	switch k {
	case MediaImage:
		return "image"
	case MediaAnimation:
		return "animation"
	case MediaVideo:
		return "video"
	default:
		return "document"
	}
}

type Attachment struct {
	URL         string
	Filename    string
	ContentType string
}

type MentionedUser struct {
	ID         string
	Username   string
	GlobalName string
	// Nickname is the per-guild nickname, if the event carried one.
	Nickname string
}

type MentionedRole struct {
	ID   string
	Name string
}
