package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMessage_EmptyInput(t *testing.T) {
	assert.Equal(t, "", RenderMessage(""))
	assert.Equal(t, "", RenderMessage("   "))
}

func TestRenderMessage_PlainText(t *testing.T) {
	result := RenderMessage("Invalid credentials. Please check the email and password.")
	assert.Equal(t, "<p>Invalid credentials. Please check the email and password.</p>", result)
}

func TestRenderMessage_BacktickParam(t *testing.T) {
	result := RenderMessage("Invalid `password` param: Password must be between 8 and 265 characters long.")
	assert.Contains(t, result, "<code>password</code>")
}

func TestRenderMessage_SanitizesScript(t *testing.T) {
	result := RenderMessage(`<script>alert("xss")</script>`)
	assert.NotContains(t, result, "<script>")
}

func TestRenderMessage_SanitizesEventHandlers(t *testing.T) {
	result := RenderMessage(`<img src="x" onerror="alert(1)">`)
	assert.NotContains(t, result, "onerror")
}

func TestRenderMessage_Link(t *testing.T) {
	result := RenderMessage("See [docs](https://appwrite.io/docs)")
	assert.Contains(t, result, `<a href="https://appwrite.io/docs"`)
}
