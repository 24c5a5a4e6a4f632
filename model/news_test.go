package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/widgetly/chat-api/common/helper"
)

func TestPublishScheduledNewsIsIdempotent(t *testing.T) {
	setupTestDB(t)
	now := helper.GetTimestamp()

	due := News{Title: "due", PublishAt: int64Ptr(now - 60)}
	require.NoError(t, due.Insert())
	future := News{Title: "future", PublishAt: int64Ptr(now + 3600)}
	require.NoError(t, future.Insert())
	manual := News{Title: "manual"}
	require.NoError(t, manual.Insert())
	archived := News{Title: "archived", Status: NewsStatusArchived, PublishAt: int64Ptr(now - 60)}
	require.NoError(t, archived.Insert())

	rows, err := PublishScheduledNews()
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	got, err := GetNewsById(due.Id)
	require.NoError(t, err)
	require.Equal(t, NewsStatusPublished, got.Status)

	for _, tc := range []struct {
		id     int
		status string
	}{
		{future.Id, NewsStatusDraft},
		{manual.Id, NewsStatusDraft},
		{archived.Id, NewsStatusArchived},
	} {
		got, err := GetNewsById(tc.id)
		require.NoError(t, err)
		require.Equal(t, tc.status, got.Status)
	}

	rows, err = PublishScheduledNews()
	require.NoError(t, err)
	require.Zero(t, rows)
}

func TestGetPublishedNewsFiltersDrafts(t *testing.T) {
	setupTestDB(t)

	published := News{Title: "live", Status: NewsStatusPublished}
	require.NoError(t, published.Insert())
	draft := News{Title: "draft"}
	require.NoError(t, draft.Insert())

	news, err := GetPublishedNews(0, 10)
	require.NoError(t, err)
	require.Len(t, news, 1)
	require.Equal(t, "live", news[0].Title)
}

func int64Ptr(v int64) *int64 {
	return &v
}
