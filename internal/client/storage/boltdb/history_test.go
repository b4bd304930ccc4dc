package boltdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/smartnlp/internal/models"
)

func TestHistory_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	// Пустой кэш возвращает пустой срез, а не nil
	items, err := store.LoadHistory(ctx, "user-1")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	want := []models.HistoryItem{
		{
			ID:        "op-2",
			Kind:      models.KindSummarization,
			Input:     "long text",
			Output:    "short",
			Metadata:  map[string]any{"summaryLength": "short"},
			Timestamp: 2000,
		},
		{
			ID:        "op-1",
			Kind:      models.KindTranslation,
			Input:     "hello",
			Output:    "hola",
			Metadata:  map[string]any{"fromLang": "en", "toLang": "es"},
			Timestamp: 1000,
		},
	}
	require.NoError(t, store.SaveHistory(ctx, "user-1", want))

	got, err := store.LoadHistory(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// История другого пользователя не видна
	other, err := store.LoadHistory(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, store.DeleteHistory(ctx, "user-1"))

	got, err = store.LoadHistory(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, got)

	// Удаление отсутствующей истории не ошибка
	assert.NoError(t, store.DeleteHistory(ctx, "user-1"))
}

func TestHistory_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	require.NoError(t, store.SaveHistory(ctx, "user-1", []models.HistoryItem{{ID: "a"}, {ID: "b"}}))
	require.NoError(t, store.SaveHistory(ctx, "user-1", nil))

	got, err := store.LoadHistory(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHistory_BucketMissing(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	deleteBucket(t, store, bucketHistory)

	err := store.SaveHistory(ctx, "user-1", nil)
	assert.ErrorContains(t, err, "history bucket not found")

	_, err = store.LoadHistory(ctx, "user-1")
	assert.ErrorContains(t, err, "history bucket not found")

	err = store.DeleteHistory(ctx, "user-1")
	assert.ErrorContains(t, err, "history bucket not found")
}
