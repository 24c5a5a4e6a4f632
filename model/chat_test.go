package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChatCloseReturnsDurationOnce(t *testing.T) {
	setupTestDB(t)

	chat := Chat{ApiKeyId: "key-1"}
	require.NoError(t, chat.Insert())
	require.NotEmpty(t, chat.Id)
	require.Equal(t, ChatStatusOpen, chat.Status)

	duration, err := chat.Close()
	require.NoError(t, err)
	require.GreaterOrEqual(t, duration, int64(0))
	require.Equal(t, ChatStatusClosed, chat.Status)

	// Double closing must fail so the completion event is recorded once.
	_, err = chat.Close()
	require.Error(t, err)
}

func TestChatCloseStaleInstanceLosesRace(t *testing.T) {
	setupTestDB(t)

	chat := Chat{ApiKeyId: "key-1"}
	require.NoError(t, chat.Insert())

	// Two handlers load the same open chat before either closes it.
	first, err := GetChatById(chat.Id, "key-1")
	require.NoError(t, err)
	second, err := GetChatById(chat.Id, "key-1")
	require.NoError(t, err)

	_, err = first.Close()
	require.NoError(t, err)

	// The stale instance still sees status=open in memory; the conditional
	// update must reject it anyway.
	_, err = second.Close()
	require.Error(t, err)

	got, err := GetChatById(chat.Id, "key-1")
	require.NoError(t, err)
	require.Equal(t, ChatStatusClosed, got.Status)
}

func TestChatScopedLookup(t *testing.T) {
	setupTestDB(t)

	chat := Chat{ApiKeyId: "key-1"}
	require.NoError(t, chat.Insert())

	got, err := GetChatById(chat.Id, "key-1")
	require.NoError(t, err)
	require.Equal(t, chat.Id, got.Id)

	// Another key cannot address the conversation.
	_, err = GetChatById(chat.Id, "key-2")
	require.Error(t, err)
}

func TestChatDeleteCascadesMessages(t *testing.T) {
	setupTestDB(t)

	chat := Chat{ApiKeyId: "key-1"}
	require.NoError(t, chat.Insert())
	msg := Message{ChatId: chat.Id, Role: MessageRoleUser, Content: "hello"}
	require.NoError(t, msg.Insert())

	require.NoError(t, chat.Delete())

	var count int64
	require.NoError(t, DB.Model(&Message{}).Where("chat_id = ?", chat.Id).Count(&count).Error)
	require.Zero(t, count)
}

func TestGetRecentChatMessagesChronological(t *testing.T) {
	setupTestDB(t)

	chat := Chat{ApiKeyId: "key-1"}
	require.NoError(t, chat.Insert())
	for _, content := range []string{"first", "second", "third"} {
		msg := Message{ChatId: chat.Id, Role: MessageRoleUser, Content: content}
		require.NoError(t, msg.Insert())
	}

	messages, err := GetRecentChatMessages(chat.Id, 2)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, "second", messages[0].Content)
	require.Equal(t, "third", messages[1].Content)
}
