package twilio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wearly/tryonbot/internal/domain"
)

func TestRenderReply_TextOnly(t *testing.T) {
	t.Parallel()

	doc, err := RenderReply(domain.Reply{Text: "Welcome to Virtual Try-On!"})

	require.NoError(t, err)
	assert.Contains(t, doc, "<Response>")
	assert.Contains(t, doc, "<Message>")
	assert.Contains(t, doc, "Welcome to Virtual Try-On!")
	assert.NotContains(t, doc, "<Media>")
}

func TestRenderReply_WithMedia(t *testing.T) {
	t.Parallel()

	doc, err := RenderReply(domain.Reply{
		Text:     "Here is your try-on result!",
		MediaRef: "https://space.example/r.png",
	})

	require.NoError(t, err)
	assert.Contains(t, doc, "<Media>")
	assert.Contains(t, doc, "https://space.example/r.png")
	assert.Contains(t, doc, "Here is your try-on result!")
}
