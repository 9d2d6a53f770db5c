package core

import (
	"fmt"
	"strings"

	"personachat/internal/store"
)

// historyLimit bounds how much stored history a single model request
// carries. The new message and the system prompt are never truncated.
const historyLimit = 10

// Prompt is a composed model request: text, plus an optional typed image
// part when the attachment is an image.
type Prompt struct {
	Text      string
	ImageMIME string
	ImageData []byte
}

func (p Prompt) HasImage() bool {
	return len(p.ImageData) > 0
}

// ComposePrompt builds a single model request from the persona system
// prompt, the trailing stored history, the new user message, and an
// optional attachment. Pure function, no I/O.
func ComposePrompt(systemPrompt string, history []store.Message, userMessage string, file *FileData) Prompt {
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n")

	if len(history) > 0 {
		b.WriteString("Conversation history:\n")
		for _, msg := range history {
			if msg.Role == store.RoleUser {
				b.WriteString("User: ")
			} else {
				b.WriteString("Assistant: ")
			}
			b.WriteString(msg.Content)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if file.IsImage() {
		fmt.Fprintf(&b, "User: %s", userMessage)
		return Prompt{
			Text:      b.String(),
			ImageMIME: file.MimeType,
			ImageData: file.Content,
		}
	}

	if file != nil {
		b.WriteString("\n**File Information:**\n")
		fmt.Fprintf(&b, "- File Name: %s\n", file.Filename)
		fmt.Fprintf(&b, "- File Type: %s\n", file.MimeType)
		fmt.Fprintf(&b, "- File Size: %d bytes\n\n", file.Size)
		fmt.Fprintf(&b, "**File Content:**\n%s\n\n", file.Content)
	}

	fmt.Fprintf(&b, "User: %s\nAssistant:", userMessage)
	return Prompt{Text: b.String()}
}
