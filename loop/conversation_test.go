package loop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobyfell/dispatch"
	"github.com/tobyfell/dispatch/loop"
)

func TestConversationCommitTrimsOldestFirst(t *testing.T) {
	c := loop.NewConversation(3)
	c.SetSystemPrompt("you are helpful")
	for _, text := range []string{"one", "two", "three", "four", "five"} {
		c.Append(dispatch.UserMessage(text))
	}
	c.Commit()

	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "three", msgs[0].Text())
	assert.Equal(t, "five", msgs[2].Text())

	// The system prompt lives outside the bound.
	assert.Equal(t, "you are helpful", c.SystemPrompt())
}

func TestConversationNoTrimBeforeCommit(t *testing.T) {
	c := loop.NewConversation(2)
	for i := 0; i < 5; i++ {
		c.Append(dispatch.UserMessage("m"))
	}
	assert.Equal(t, 5, c.Len())
	c.Commit()
	assert.Equal(t, 2, c.Len())
}

func TestConversationTruncateRollsBack(t *testing.T) {
	c := loop.NewConversation(10)
	c.Append(dispatch.UserMessage("committed"))
	mark := c.Len()

	c.Append(dispatch.UserMessage("partial user"))
	c.Append(dispatch.AssistantMessage())
	c.Truncate(mark)

	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "committed", msgs[0].Text())
}

func TestConversationUnbounded(t *testing.T) {
	c := loop.NewConversation(0)
	for i := 0; i < 50; i++ {
		c.Append(dispatch.UserMessage("m"))
	}
	c.Commit()
	assert.Equal(t, 50, c.Len())
}

func TestAppendSystemContext(t *testing.T) {
	c := loop.NewConversation(10)
	c.AppendSystemContext("env ready")
	assert.Equal(t, "env ready", c.SystemPrompt())

	c.AppendSystemContext("branch: main")
	assert.Equal(t, "env ready\nbranch: main", c.SystemPrompt())

	c.AppendSystemContext("")
	assert.Equal(t, "env ready\nbranch: main", c.SystemPrompt())
}

func TestTranscriptSkipsEmptyMessages(t *testing.T) {
	c := loop.NewConversation(10)
	c.Append(dispatch.UserMessage("hello"))
	c.Append(dispatch.AssistantMessage())

	lines := c.Transcript()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "hello")
}
