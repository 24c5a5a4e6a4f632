package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/widgetly/chat-api/common/helper"
)

func TestApiKeyInsertGeneratesKey(t *testing.T) {
	setupTestDB(t)

	key := ApiKey{UserId: 1, BotId: 1, Name: "widget"}
	require.NoError(t, key.Insert())
	require.Len(t, key.Key, 48)
	require.Equal(t, int64(-1), key.ExpiredAt)
	require.True(t, key.IsActive)
}

func TestDeactivateExpiredApiKeysIsIdempotent(t *testing.T) {
	setupTestDB(t)
	now := helper.GetTimestamp()

	expired := ApiKey{UserId: 1, BotId: 1, Name: "expired", ExpiredAt: now - 100}
	require.NoError(t, expired.Insert())
	eternal := ApiKey{UserId: 1, BotId: 1, Name: "eternal", ExpiredAt: -1}
	require.NoError(t, eternal.Insert())
	future := ApiKey{UserId: 1, BotId: 1, Name: "future", ExpiredAt: now + 3600}
	require.NoError(t, future.Insert())

	rows, err := DeactivateExpiredApiKeys()
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	got, err := GetApiKeyById(expired.Id)
	require.NoError(t, err)
	require.False(t, got.IsActive)
	require.GreaterOrEqual(t, got.LastUsedAt, now)
	require.False(t, got.IsApiKeyUsable())

	for _, id := range []int{eternal.Id, future.Id} {
		got, err := GetApiKeyById(id)
		require.NoError(t, err)
		require.True(t, got.IsActive)
		require.True(t, got.IsApiKeyUsable())
	}

	// Second sweep over the same state matches nothing.
	rows, err = DeactivateExpiredApiKeys()
	require.NoError(t, err)
	require.Zero(t, rows)
}

func TestIsApiKeyUsable(t *testing.T) {
	now := helper.GetTimestamp()
	cases := []struct {
		name   string
		key    ApiKey
		usable bool
	}{
		{"active never expires", ApiKey{IsActive: true, ExpiredAt: -1}, true},
		{"active not yet expired", ApiKey{IsActive: true, ExpiredAt: now + 3600}, true},
		{"active but expired", ApiKey{IsActive: true, ExpiredAt: now - 1}, false},
		{"inactive", ApiKey{IsActive: false, ExpiredAt: -1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.usable, tc.key.IsApiKeyUsable())
		})
	}
}

func TestCacheGetApiKeyByKeyFallsBackToDatabase(t *testing.T) {
	setupTestDB(t)

	key := ApiKey{UserId: 1, BotId: 1, Name: "cached"}
	require.NoError(t, key.Insert())

	got, err := CacheGetApiKeyByKey(context.Background(), key.Key)
	require.NoError(t, err)
	require.Equal(t, key.Id, got.Id)

	_, err = CacheGetApiKeyByKey(context.Background(), "no-such-key")
	require.Error(t, err)
}
