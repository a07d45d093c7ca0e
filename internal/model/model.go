package model

import "strings"

// UserID is the transport's native user identity.
type UserID int64

// Role tags the speaker of a Turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Part is one piece of multipart content. Exactly one of Text or Data is set.
type Part struct {
	Text     string `json:"text,omitempty"`
	Data     []byte `json:"-"`
	MIMEType string `json:"mime_type,omitempty"`
}

// Content is the payload of a Turn: either plain text or a list of parts.
type Content struct {
	Parts []Part `json:"parts"`
}

// TextContent wraps a string as single-part content.
func TextContent(text string) Content {
	return Content{Parts: []Part{{Text: text}}}
}

// ImageContent builds the multipart payload for a photo request: the image
// bytes followed by the caption prompt.
func ImageContent(data []byte, mimeType, caption string) Content {
	return Content{Parts: []Part{
		{Data: data, MIMEType: mimeType},
		{Text: caption},
	}}
}

// Text concatenates the text parts of the content.
func (c Content) Text() string {
	var b strings.Builder
	for _, p := range c.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// HasInlineData reports whether any part carries binary data.
func (c Content) HasInlineData() bool {
	for _, p := range c.Parts {
		if len(p.Data) > 0 {
			return true
		}
	}
	return false
}

// Turn is one message unit in a conversation. Turns are never edited once
// appended to a history.
type Turn struct {
	Role    Role    `json:"role"`
	Content Content `json:"content"`
}

// UserTurn returns a USER turn with the given text.
func UserTurn(text string) Turn {
	return Turn{Role: RoleUser, Content: TextContent(text)}
}

// ModelTurn returns a MODEL turn with the given text.
func ModelTurn(text string) Turn {
	return Turn{Role: RoleModel, Content: TextContent(text)}
}

// Choice selects one of the two backend tiers.
type Choice string

const (
	ChoiceFast    Choice = "fast"
	ChoiceCapable Choice = "capable"
)

// DefaultChoice is used for users that never switched.
const DefaultChoice = ChoiceCapable

// Toggle flips FAST and CAPABLE.
func (c Choice) Toggle() Choice {
	if c == ChoiceFast {
		return ChoiceCapable
	}
	return ChoiceFast
}

// ChatType is the context an event originates from.
type ChatType string

const (
	ChatPrivate ChatType = "private"
	ChatGroup   ChatType = "group"
)

// IsPrivate reports whether the chat is a 1:1 conversation.
func (t ChatType) IsPrivate() bool {
	return t == ChatPrivate
}

// ImageChoice picks the tier used for photo requests: private chats get the
// capable tier, group chats the fast one. The user's stored choice is ignored.
func ImageChoice(t ChatType) Choice {
	if t.IsPrivate() {
		return ChoiceCapable
	}
	return ChoiceFast
}

// PhotoRef identifies one resolution variant of an attached photo.
type PhotoRef struct {
	FileID   string `json:"file_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	FileSize int    `json:"file_size,omitempty"`
}

// MessageHandle addresses a message previously sent through the transport.
type MessageHandle struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int   `json:"message_id"`
}

// Event is a transport-neutral inbound chat event.
type Event struct {
	UpdateID  int
	UserID    UserID
	ChatID    int64
	ChatType  ChatType
	MessageID int
	// Command is set for "/name" messages, without the slash or bot suffix.
	Command string
	Text    string
	Caption string
	Photos  []PhotoRef
}

// HasPhoto reports whether the event carries a photo attachment.
func (e Event) HasPhoto() bool {
	return len(e.Photos) > 0
}

// LargestPhoto returns the highest-resolution variant attached to the event.
func (e Event) LargestPhoto() (PhotoRef, bool) {
	if len(e.Photos) == 0 {
		return PhotoRef{}, false
	}
	best := e.Photos[0]
	for _, p := range e.Photos[1:] {
		if p.Width*p.Height > best.Width*best.Height ||
			(p.Width*p.Height == best.Width*best.Height && p.FileSize > best.FileSize) {
			best = p
		}
	}
	return best, true
}

// GenerationStats is a point-in-time view of the generation worker pool.
type GenerationStats struct {
	Workers   int    `json:"workers"`
	Queued    int    `json:"queued"`
	InFlight  int64  `json:"in_flight"`
	Completed uint64 `json:"completed"`
	Failed    uint64 `json:"failed"`
}
