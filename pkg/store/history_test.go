package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHistory(t *testing.T) *History {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	h, err := OpenHistory(path)
	require.NoError(t, err)

	t.Cleanup(func() {
		h.Close()
	})
	return h
}

func TestHistory_SaveAndGet(t *testing.T) {
	h := setupHistory(t)
	ctx := context.Background()

	saved, err := h.Save(ctx, Run{
		Kind:    "analyze",
		Label:   "$500k purchase, 20% down, 30-year fixed @ 6.10%",
		Request: json.RawMessage(`{"home_price":500000,"down_payment":100000}`),
		Summary: json.RawMessage(`{"monthly_payment":2423.89}`),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, saved.CreatedAt.Location())

	got, err := h.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "analyze", got.Kind)
	assert.Equal(t, "$500k purchase, 20% down, 30-year fixed @ 6.10%", got.Label)
	assert.True(t, saved.CreatedAt.Equal(got.CreatedAt))
	assert.JSONEq(t, `{"home_price":500000,"down_payment":100000}`, string(got.Request))
	assert.JSONEq(t, `{"monthly_payment":2423.89}`, string(got.Summary))
}

func TestHistory_Save_RequiresKind(t *testing.T) {
	h := setupHistory(t)

	_, err := h.Save(context.Background(), Run{Label: "no kind"})
	assert.Error(t, err)
}

func TestHistory_Save_KeepsCallerID(t *testing.T) {
	h := setupHistory(t)
	ctx := context.Background()

	saved, err := h.Save(ctx, Run{
		ID:      "run-001",
		Kind:    "compare",
		Request: json.RawMessage(`{}`),
		Summary: json.RawMessage(`{}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "run-001", saved.ID)

	_, err = h.Save(ctx, Run{
		ID:      "run-001",
		Kind:    "compare",
		Request: json.RawMessage(`{}`),
		Summary: json.RawMessage(`{}`),
	})
	assert.Error(t, err, "duplicate id must be rejected")
}

func TestHistory_Get_NotFound(t *testing.T) {
	h := setupHistory(t)

	_, err := h.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestHistory_List_NewestFirst(t *testing.T) {
	h := setupHistory(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	stamps := []time.Time{
		base,
		base.Add(250 * time.Millisecond),
		base.Add(500 * time.Millisecond),
		base.Add(time.Hour),
	}
	for i, ts := range stamps {
		_, err := h.Save(ctx, Run{
			Kind:      "analyze",
			Label:     string(rune('a' + i)),
			CreatedAt: ts,
			Request:   json.RawMessage(`{}`),
			Summary:   json.RawMessage(`{}`),
		})
		require.NoError(t, err)
	}

	runs, err := h.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 4)

	labels := make([]string, len(runs))
	for i, r := range runs {
		labels[i] = r.Label
	}
	assert.Equal(t, []string{"d", "c", "b", "a"}, labels)
}

func TestHistory_List_Limit(t *testing.T) {
	h := setupHistory(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		_, err := h.Save(ctx, Run{
			Kind:      "analyze",
			CreatedAt: time.Date(2025, 1, 1, 0, 0, i, 0, time.UTC),
			Request:   json.RawMessage(`{}`),
			Summary:   json.RawMessage(`{}`),
		})
		require.NoError(t, err)
	}

	runs, err := h.List(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, runs, 5)

	runs, err = h.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, defaultListLimit)
}

func TestHistory_List_Empty(t *testing.T) {
	h := setupHistory(t)

	runs, err := h.List(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestHistory_Clear(t *testing.T) {
	h := setupHistory(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := h.Save(ctx, Run{
			Kind:    "rentvsbuy",
			Request: json.RawMessage(`{}`),
			Summary: json.RawMessage(`{}`),
		})
		require.NoError(t, err)
	}

	n, err := h.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	runs, err := h.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestNewHistory_NilDB(t *testing.T) {
	_, err := NewHistory(nil)
	assert.Error(t, err)
}

func TestOpenHistory_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	h, err := OpenHistory(path)
	require.NoError(t, err)
	saved, err := h.Save(ctx, Run{
		Kind:    "analyze",
		Request: json.RawMessage(`{}`),
		Summary: json.RawMessage(`{}`),
	})
	require.NoError(t, err)
	require.NoError(t, h.Close())

	h, err = OpenHistory(path)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })

	got, err := h.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
}
