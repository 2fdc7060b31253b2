// Package loop implements the turn loop: the conversation driver that sends
// model requests, executes requested tools under hook supervision, and
// appends results until the model ends its turn or a bound is hit.
package loop

import (
	"strings"

	"github.com/tobyfell/dispatch"
)

// ConversationManager owns a bounded conversation history plus the system
// prompt. It is exclusively owned by one TurnLoop and is not safe for
// concurrent use.
//
// Appends accumulate without trimming so an aborted turn can roll back to a
// recorded mark; the history bound is applied on Commit.
type ConversationManager struct {
	systemPrompt string
	messages     []dispatch.Message
	limit        int
}

// NewConversation creates a manager bounded to limit messages. A limit of
// zero or less means unbounded.
func NewConversation(limit int) *ConversationManager {
	return &ConversationManager{limit: limit}
}

// SetSystemPrompt replaces the system prompt. The system prompt lives
// outside the bounded history and is never trimmed.
func (c *ConversationManager) SetSystemPrompt(prompt string) {
	c.systemPrompt = prompt
}

// AppendSystemContext appends additional context to the system prompt,
// separated by a newline.
func (c *ConversationManager) AppendSystemContext(context string) {
	if context == "" {
		return
	}
	if c.systemPrompt == "" {
		c.systemPrompt = context
		return
	}
	c.systemPrompt = c.systemPrompt + "\n" + context
}

// SystemPrompt returns the current system prompt.
func (c *ConversationManager) SystemPrompt() string {
	return c.systemPrompt
}

// Append adds a message to the history. No trimming happens here.
func (c *ConversationManager) Append(msg dispatch.Message) {
	c.messages = append(c.messages, msg)
}

// Len returns the current message count. Used as a rollback mark before a
// turn begins mutating history.
func (c *ConversationManager) Len() int {
	return len(c.messages)
}

// Truncate discards every message appended after the mark. Used to roll
// back a turn aborted mid-flight so partial tool results are not committed.
func (c *ConversationManager) Truncate(mark int) {
	if mark < 0 {
		mark = 0
	}
	if mark < len(c.messages) {
		c.messages = c.messages[:mark]
	}
}

// Commit applies the history bound, dropping oldest messages first. Called
// once per completed turn.
func (c *ConversationManager) Commit() {
	if c.limit > 0 && len(c.messages) > c.limit {
		drop := len(c.messages) - c.limit
		c.messages = append([]dispatch.Message(nil), c.messages[drop:]...)
	}
}

// Messages returns a snapshot of the history, oldest first.
func (c *ConversationManager) Messages() []dispatch.Message {
	out := make([]dispatch.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Transcript renders the history as plain text, one "role: text" line per
// message, for routing context and debugging.
func (c *ConversationManager) Transcript() []string {
	var lines []string
	for _, m := range c.messages {
		text := m.Text()
		if text == "" {
			continue
		}
		lines = append(lines, string(m.Role)+": "+strings.TrimSpace(text))
	}
	return lines
}
