package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"token-research.backend/internal/domain/entities"
	"token-research.backend/internal/infrastructure/repositories"
)

type failingSlotStore struct {
	getErr, setErr, delErr error
	deletes                []string
}

func (s *failingSlotStore) Get(context.Context, string) (string, error) { return "", s.getErr }
func (s *failingSlotStore) Set(context.Context, string, string) error   { return s.setErr }
func (s *failingSlotStore) Delete(_ context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	return s.delErr
}

func TestSlotKey_Versioned(t *testing.T) {
	assert.Equal(t, "token-research:tokens:v1", SlotKey(SlotTokens))
	assert.Equal(t, "token-research:notes:v1", SlotKey(SlotNotes))
}

func TestAdapter_RoundTrip(t *testing.T) {
	store := repositories.NewMemorySlotRepository()
	a := NewAdapter(store, time.Second)
	ctx := context.Background()

	a.SaveTokens(ctx, entities.StarterTokens())
	a.SaveNotes(ctx, map[int]string{1: "first", 2: ""})

	tokens, ok := a.LoadTokens(ctx)
	require.True(t, ok)
	assert.Equal(t, entities.StarterTokens(), tokens)

	notes, ok := a.LoadNotes(ctx)
	require.True(t, ok)
	assert.Equal(t, map[int]string{1: "first", 2: ""}, notes)

	raw, err := store.Get(ctx, SlotKey(SlotNotes))
	require.NoError(t, err)
	assert.JSONEq(t, `{"1":"first","2":""}`, raw)
}

func TestAdapter_MissingSlotsAreAbsent(t *testing.T) {
	a := NewAdapter(repositories.NewMemorySlotRepository(), 0)

	_, ok := a.LoadTokens(context.Background())
	assert.False(t, ok)
	_, ok = a.LoadNotes(context.Background())
	assert.False(t, ok)
}

func TestAdapter_CorruptTokensAreAbsent(t *testing.T) {
	cases := map[string]string{
		"invalid json":       `[{"id":1,`,
		"object not array":   `{"id":1}`,
		"null":               `null`,
		"number":             `42`,
		"wrong element type": `[1,2,3]`,
		"null element":       `[null]`,
		"duplicate ids":      `[{"id":1,"name":"a"},{"id":1,"name":"b"}]`,
		"duplicate item ids": `[{"id":1,"checklist":[{"id":"x"},{"id":"x"}]}]`,
		"wrong field type":   `[{"id":"one"}]`,
		"zero id":            `[{"id":0,"name":"a"}]`,
		"negative id":        `[{"id":-4,"name":"a"}]`,
		"max id":             `[{"id":9223372036854775807,"name":"a"}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			store := repositories.NewMemorySlotRepository()
			require.NoError(t, store.Set(context.Background(), SlotKey(SlotTokens), raw))

			_, ok := NewAdapter(store, 0).LoadTokens(context.Background())
			assert.False(t, ok)
		})
	}
}

func TestAdapter_EmptyArrayIsValid(t *testing.T) {
	store := repositories.NewMemorySlotRepository()
	require.NoError(t, store.Set(context.Background(), SlotKey(SlotTokens), ` [] `))

	tokens, ok := NewAdapter(store, 0).LoadTokens(context.Background())
	require.True(t, ok)
	assert.Empty(t, tokens)
	assert.NotNil(t, tokens)
}

func TestAdapter_FillsMissingSlices(t *testing.T) {
	store := repositories.NewMemorySlotRepository()
	require.NoError(t, store.Set(context.Background(), SlotKey(SlotTokens), `[{"id":3,"name":"Sui"}]`))

	tokens, ok := NewAdapter(store, 0).LoadTokens(context.Background())
	require.True(t, ok)
	require.Len(t, tokens, 1)
	assert.NotNil(t, tokens[0].Thesis)
	assert.NotNil(t, tokens[0].Risks)
	assert.NotNil(t, tokens[0].Checklist)
}

func TestAdapter_CorruptNotesAreAbsent(t *testing.T) {
	for name, raw := range map[string]string{
		"array":          `["a"]`,
		"non-int key":    `{"abc":"x"}`,
		"non-string val": `{"1":5}`,
		"null val":       `{"1":null}`,
		"padded key":     `{"1":"a","01":"x"}`,
		"signed key":     `{"+2":"y"}`,
		"garbage":        `not json`,
	} {
		t.Run(name, func(t *testing.T) {
			store := repositories.NewMemorySlotRepository()
			require.NoError(t, store.Set(context.Background(), SlotKey(SlotNotes), raw))

			_, ok := NewAdapter(store, 0).LoadNotes(context.Background())
			assert.False(t, ok)
		})
	}
}

func TestAdapter_NotesKeepEmptyStringDistinct(t *testing.T) {
	store := repositories.NewMemorySlotRepository()
	require.NoError(t, store.Set(context.Background(), SlotKey(SlotNotes), `{"1":"","12":"watch unlocks"}`))

	notes, ok := NewAdapter(store, 0).LoadNotes(context.Background())
	require.True(t, ok)
	assert.Equal(t, map[int]string{1: "", 12: "watch unlocks"}, notes)
}

func TestAdapter_ForeignVersionIsAbsent(t *testing.T) {
	store := repositories.NewMemorySlotRepository()
	require.NoError(t, store.Set(context.Background(), "token-research:tokens:v2", `[{"id":1}]`))
	require.NoError(t, store.Set(context.Background(), "token-research:tokens:v0", `[{"id":1}]`))

	_, ok := NewAdapter(store, 0).LoadTokens(context.Background())
	assert.False(t, ok)
}

func TestAdapter_BackendFailuresAreSwallowed(t *testing.T) {
	boom := errors.New("storage unavailable")
	store := &failingSlotStore{getErr: boom, setErr: boom, delErr: boom}
	a := NewAdapter(store, time.Second)
	ctx := context.Background()

	_, ok := a.LoadTokens(ctx)
	assert.False(t, ok)
	_, ok = a.LoadNotes(ctx)
	assert.False(t, ok)

	assert.NotPanics(t, func() {
		a.SaveTokens(ctx, nil)
		a.SaveNotes(ctx, nil)
		a.Clear(ctx)
	})
	assert.Equal(t, []string{SlotKey(SlotTokens), SlotKey(SlotNotes)}, store.deletes)
}

func TestAdapter_SaveNilWritesEmptyContainers(t *testing.T) {
	store := repositories.NewMemorySlotRepository()
	a := NewAdapter(store, 0)
	ctx := context.Background()

	a.SaveTokens(ctx, nil)
	a.SaveNotes(ctx, nil)

	raw, err := store.Get(ctx, SlotKey(SlotTokens))
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
	raw, err = store.Get(ctx, SlotKey(SlotNotes))
	require.NoError(t, err)
	assert.Equal(t, "{}", raw)
}

func TestAdapter_ClearRemovesBothSlots(t *testing.T) {
	store := repositories.NewMemorySlotRepository()
	a := NewAdapter(store, 0)
	ctx := context.Background()

	a.SaveTokens(ctx, entities.StarterTokens())
	a.SaveNotes(ctx, map[int]string{1: "x"})
	require.Equal(t, 2, store.Len())

	a.Clear(ctx)
	assert.Equal(t, 0, store.Len())
}
