package twilio

import (
	"fmt"

	"github.com/twilio/twilio-go/twiml"

	"github.com/wearly/tryonbot/internal/domain"
)

// RenderReply renders a reply as a TwiML messaging document for the
// synchronous webhook response. The provider delivers the message itself;
// no send API call is made.
func RenderReply(r domain.Reply) (string, error) {
	msg := &twiml.MessagingMessage{Body: r.Text}
	if r.MediaRef != "" {
		msg.InnerElements = append(msg.InnerElements, &twiml.MessagingMedia{Url: r.MediaRef})
	}

	doc, err := twiml.Messages([]twiml.Element{msg})
	if err != nil {
		return "", fmt.Errorf("render twiml: %w", err)
	}
	return doc, nil
}
