package domain

// MediaRef points at one inbound media attachment. Either URL is a direct
// content link, or MessageSID identifies the provider message whose media
// list must be resolved with an authenticated lookup.
type MediaRef struct {
	URL        string
	MessageSID string
}

// InboundEvent is one normalized webhook delivery. Only the first media
// attachment is carried; the provider may report more via NumMedia.
type InboundEvent struct {
	Sender   string
	To       string
	Body     string
	NumMedia int
	Media    *MediaRef
}

// HasMedia reports whether the event carries a usable attachment.
func (e InboundEvent) HasMedia() bool {
	return e.NumMedia > 0 && e.Media != nil
}

// Reply is the outbound answer to one inbound event. MediaRef, when set,
// is a path or URL to attach to the message.
type Reply struct {
	Text     string
	MediaRef string
}
