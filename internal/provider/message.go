package provider

import (
	"strings"

	"github.com/kursadbilgin/alert-dispatcher/internal/domain"
	"github.com/kursadbilgin/alert-dispatcher/internal/render"
)

const msgTypeMarkdown = "markdown"

// Message is the markdown payload accepted by the DingTalk robot API.
type Message struct {
	MsgType  string          `json:"msgtype"`
	Markdown MarkdownContent `json:"markdown"`
	At       AtContent       `json:"at"`
}

type MarkdownContent struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type AtContent struct {
	AtMobiles []string `json:"atMobiles"`
	IsAtAll   bool     `json:"isAtAll"`
}

// SplitContacts parses a comma-separated contact list. Blank entries are
// dropped, so "" yields an empty, non-nil slice.
func SplitContacts(contacts string) []string {
	result := make([]string, 0)
	for _, contact := range strings.Split(contacts, ",") {
		if trimmed := strings.TrimSpace(contact); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// MentionTitle appends " @a,@b" for the given contacts.
func MentionTitle(title string, contacts []string) string {
	if len(contacts) == 0 {
		return title
	}
	return title + " @" + strings.Join(contacts, ",@")
}

// ComposeMessage renders the alert body and builds the robot payload.
func ComposeMessage(renderer Renderer, params domain.DingTalkParams, alert domain.AlertContent) (*Message, error) {
	if renderer == nil {
		return nil, &DeliveryError{Kind: KindRender, Message: "renderer is not configured"}
	}

	contacts := SplitContacts(params.Contacts)

	text, err := renderer.Render(render.AlertTemplateName, alert)
	if err != nil {
		return nil, &DeliveryError{
			Kind:    KindRender,
			Message: "failed to render alert template",
			Cause:   err,
		}
	}

	return &Message{
		MsgType: msgTypeMarkdown,
		Markdown: MarkdownContent{
			Title: MentionTitle(render.OneLine(alert.Title), contacts),
			Text:  text,
		},
		At: AtContent{
			AtMobiles: contacts,
			IsAtAll:   params.AtAll(),
		},
	}, nil
}
