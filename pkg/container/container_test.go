package container_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codenest/ahem/pkg/container"
	"github.com/codenest/ahem/pkg/notice"
)

// jsonStore keeps the snapshot serialized, the way a real flash backend does.
type jsonStore struct {
	data    []byte
	saves   int
	err     error
	saveErr error
}

func (s *jsonStore) Load(context.Context) (container.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	snap := container.Snapshot{}
	if s.data == nil {
		return snap, nil
	}
	if err := json.Unmarshal(s.data, &snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *jsonStore) Save(_ context.Context, snap container.Snapshot) error {
	if s.err != nil {
		return s.err
	}
	if s.saveErr != nil {
		return s.saveErr
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.data = data
	s.saves++
	return nil
}

func (s *jsonStore) snapshot(t *testing.T) container.Snapshot {
	t.Helper()
	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	return snap
}

func add(t *testing.T, c *container.Container, typ string, id notice.ID, messages ...string) *notice.Notice {
	t.Helper()
	n := notice.New(typ, id, true)
	for _, m := range messages {
		n.AddMessage(m)
	}
	n, err := c.Add(context.Background(), n)
	require.NoError(t, err)
	return n
}

func ids(notices []*notice.Notice) []notice.ID {
	out := make([]notice.ID, len(notices))
	for i, n := range notices {
		out[i] = n.ID()
	}
	return out
}

func TestContainer_AddTypes(t *testing.T) {
	t.Parallel()

	c := container.New(nil, container.WithTypes("success", "info"))
	c.AddTypes("info", "warning", "success")

	assert.Equal(t, []string{"success", "info", "warning"}, c.Types())
	assert.True(t, c.HasType("warning"))
	assert.False(t, c.HasType("error"))

	n, err := c.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestContainer_MakeNewID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("starts at zero", func(t *testing.T) {
		t.Parallel()
		c := container.New(nil, container.WithTypes("info"))
		id, err := c.MakeNewID("info", "")
		require.NoError(t, err)
		assert.Equal(t, notice.ID("0"), id)
	})

	t.Run("explicit id is returned unchanged", func(t *testing.T) {
		t.Parallel()
		c := container.New(nil, container.WithTypes("info"))
		add(t, c, "info", "custom")
		id, err := c.MakeNewID("info", "custom")
		require.NoError(t, err)
		assert.Equal(t, notice.ID("custom"), id)
	})

	t.Run("fresh ids strictly increase", func(t *testing.T) {
		t.Parallel()
		c := container.New(nil, container.WithTypes("info"))
		prev := -1
		seen := map[notice.ID]bool{}
		for range 10 {
			n := add(t, c, "info", "")
			v, ok := n.ID().Int()
			require.True(t, ok)
			assert.Greater(t, v, prev)
			assert.False(t, seen[n.ID()])
			seen[n.ID()] = true
			prev = v
		}
	})

	t.Run("continues after the largest numeric id", func(t *testing.T) {
		t.Parallel()
		c := container.New(nil, container.WithTypes("info"))
		add(t, c, "info", "7")
		add(t, c, "info", "named")
		add(t, c, "info", "3")

		id, err := c.MakeNewID("info", "")
		require.NoError(t, err)
		assert.Equal(t, notice.ID("8"), id)
	})

	t.Run("largest id at the int ceiling", func(t *testing.T) {
		t.Parallel()
		c := container.New(nil, container.WithTypes("info"))
		add(t, c, "info", notice.IntID(math.MaxInt))

		id, err := c.MakeNewID("info", "")
		require.NoError(t, err)
		assert.Equal(t, notice.ID("0"), id)

		add(t, c, "info", notice.IntID(math.MaxInt-1))
		id, err = c.MakeNewID("info", "")
		require.NoError(t, err)
		assert.Equal(t, notice.ID("0"), id, "wraps to the lowest free id")

		add(t, c, "info", "0")
		id, err = c.MakeNewID("info", "")
		require.NoError(t, err)
		assert.Equal(t, notice.ID("1"), id)
	})

	t.Run("string ids only", func(t *testing.T) {
		t.Parallel()
		c := container.New(nil, container.WithTypes("info"))
		add(t, c, "info", "a")
		id, err := c.MakeNewID("info", "")
		require.NoError(t, err)
		assert.Equal(t, notice.ID("0"), id)
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()
		c := container.New(nil)
		_, err := c.MakeNewID("nope", "")
		assert.ErrorIs(t, err, container.ErrUnknownType)

		_, err = c.Save(ctx, notice.New("nope", "1", true))
		assert.ErrorIs(t, err, container.ErrUnknownType)
	})
}

func TestContainer_SaveAndStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &jsonStore{}
	c := container.New(store, container.WithTypes("success", "info"))

	add(t, c, "success", "", "Saved")
	n := notice.New("info", "", false).AddMessage("Local only")
	_, err := c.Add(ctx, n)
	require.NoError(t, err)

	snap := store.snapshot(t)
	require.Len(t, snap["success"], 1)
	assert.Empty(t, snap["info"])
	assert.Equal(t, 1, store.saves)

	// Overwrite keeps the slot.
	_, err = c.Save(ctx, notice.New("success", "0", true).AddMessage("Updated"))
	require.NoError(t, err)
	snap = store.snapshot(t)
	require.Len(t, snap["success"], 1)
	assert.Equal(t, []string{"Updated"}, snap["success"][0].Messages().All(""))

	n.SetFlashable(true)
	require.NoError(t, c.StoreAll(ctx))
	snap = store.snapshot(t)
	assert.Equal(t, 2, snap.Len())
}

func TestContainer_Save_StoreFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &jsonStore{}
	c := container.New(store, container.WithTypes("success"))
	require.NoError(t, c.Boot(ctx))
	add(t, c, "success", "", "Saved")

	store.saveErr = errors.New("down")

	_, err := c.Add(ctx, notice.New("success", "", true).AddMessage("Lost"))
	require.Error(t, err)
	assert.False(t, c.Has("success", "1"), "new notice is dropped")

	_, err = c.Save(ctx, notice.New("success", "0", true).AddMessage("Replaced"))
	require.Error(t, err)
	n, err := c.Find("success", "0")
	require.NoError(t, err)
	assert.Equal(t, "Saved", n.Messages().First(""), "previous occupant is restored")

	count, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	store.saveErr = nil
	require.NoError(t, c.StoreAll(ctx))
	snap := store.snapshot(t)
	require.Len(t, snap["success"], 1)
	assert.Equal(t, []string{"Saved"}, snap["success"][0].Messages().All(""))
}

func TestContainer_BootRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &jsonStore{}
	first := container.New(store, container.WithTypes("success"))
	n := notice.New("success", "", true).UseHeadingKey("title")
	n.AddMessages(map[string][]string{"title": {"Done"}, "": {"Saved", "Sent"}})
	n.WrapperClass("alert")
	_, err := first.Add(ctx, n)
	require.NoError(t, err)

	next := container.New(store, container.WithTypes("success"))
	require.NoError(t, next.Boot(ctx))

	got, err := next.Find("success", n.ID())
	require.NoError(t, err)
	assert.Equal(t, n.Type(), got.Type())
	assert.Equal(t, n.Settings(), got.Settings())
	assert.Equal(t, "Done", got.Messages().RawHeading())
	assert.Equal(t, []string{"Saved", "Sent"}, got.Messages().All(""))
	assert.Equal(t, n.Render(nil), got.Render(nil))
}

func TestContainer_Boot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &jsonStore{}
	seed := container.New(store, container.WithTypes("info", "legacy"))
	add(t, seed, "info", "1", "stored one")
	add(t, seed, "legacy", "a", "old")

	c := container.New(store, container.WithTypes("info"))
	require.NoError(t, c.Forget("info"))
	_, err := c.Save(ctx, notice.New("info", "1", false).AddMessage("live one"))
	require.NoError(t, err)
	_, err = c.Save(ctx, notice.New("info", "2", false).AddMessage("live two"))
	require.NoError(t, err)

	require.NoError(t, c.Boot(ctx))

	assert.Equal(t, []string{"info", "legacy"}, c.Types())

	one, err := c.Find("info", "1")
	require.NoError(t, err)
	assert.Equal(t, "stored one", one.Messages().First(""))

	two, err := c.Find("info", "2")
	require.NoError(t, err)
	assert.Equal(t, "live two", two.Messages().First(""))

	assert.True(t, c.Has("legacy", "a"))
}

func TestContainer_Boot_StoreError(t *testing.T) {
	t.Parallel()

	c := container.New(&jsonStore{err: errors.New("down")}, container.WithTypes("info"))
	err := c.Boot(context.Background())
	assert.ErrorIs(t, err, container.ErrStore)

	_, err = c.Add(context.Background(), notice.New("info", "", true))
	assert.ErrorIs(t, err, container.ErrStore)
}

func TestContainer_Get(t *testing.T) {
	t.Parallel()

	c := container.New(nil, container.WithTypes("info", "error"))
	add(t, c, "info", "", "a")
	add(t, c, "info", "", "b")
	add(t, c, "info", "x", "c")
	add(t, c, "error", "", "d")

	all, err := c.Get("info")
	require.NoError(t, err)
	assert.Equal(t, []notice.ID{"0", "1", "x"}, ids(all))

	subset, err := c.GetIDs("info", "x", "9", "0")
	require.NoError(t, err)
	assert.Equal(t, []notice.ID{"x", "0"}, ids(subset))

	subset, err = c.GetIDs("info", "1", "1", "0", "1")
	require.NoError(t, err)
	assert.Equal(t, []notice.ID{"1", "0"}, ids(subset))

	n, err := c.Find("info", "1")
	require.NoError(t, err)
	assert.Equal(t, "b", n.Messages().First(""))

	_, err = c.Find("info", "9")
	assert.ErrorIs(t, err, container.ErrNoticeNotFound)

	_, err = c.Get("nope")
	assert.ErrorIs(t, err, container.ErrUnknownType)

	flat, err := c.All()
	require.NoError(t, err)
	assert.Len(t, flat, 4)
	assert.Equal(t, "error", flat[3].Type())

	flat, err = c.All("error", "info")
	require.NoError(t, err)
	assert.Equal(t, "error", flat[0].Type())

	exported, err := c.Export("info", "error")
	require.NoError(t, err)
	assert.Len(t, exported["info"], 3)
	assert.Len(t, exported["error"], 1)
}

func TestContainer_Has(t *testing.T) {
	t.Parallel()

	c := container.New(nil, container.WithTypes("info", "error"))
	n := notice.New("info", "1", true).AddKeyed("email", "is required")
	_, err := c.Save(context.Background(), n)
	require.NoError(t, err)

	assert.True(t, c.HasAny("info"))
	assert.False(t, c.HasAny("error"))
	assert.False(t, c.HasAny("nope"))

	assert.True(t, c.Has("info", "1"))
	assert.False(t, c.Has("info", "2"))
	assert.False(t, c.Has("nope", "1"))

	assert.True(t, c.HasMessage("info", "1", "email"))
	assert.False(t, c.HasMessage("info", "1", "name"))
	assert.False(t, c.HasMessage("info", "2", "email"))

	count, err := c.MessageCount("info", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestContainer_Count(t *testing.T) {
	t.Parallel()

	c := container.New(nil, container.WithTypes("info", "error"))
	add(t, c, "info", "", "a", "b", "c")
	add(t, c, "info", "")
	add(t, c, "error", "", "x")

	total, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	info, err := c.Count("info")
	require.NoError(t, err)
	assert.Equal(t, 2, info)

	_, err = c.Count("info", "nope")
	assert.ErrorIs(t, err, container.ErrUnknownType)
}

func TestContainer_Clear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &jsonStore{}
	c := container.New(store, container.WithTypes("warning", "info"))
	add(t, c, "warning", "1", "first")
	add(t, c, "warning", "2", "second")
	add(t, c, "info", "", "note")

	require.NoError(t, c.Clear(ctx, "warning", "1"))

	count, err := c.Count("warning")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.False(t, c.Has("warning", "1"))
	assert.True(t, c.Has("warning", "2"))

	snap := store.snapshot(t)
	assert.Nil(t, snap.Find("warning", "1"))
	assert.NotNil(t, snap.Find("warning", "2"))

	require.NoError(t, c.Clear(ctx, "warning"))
	assert.False(t, c.HasAny("warning"))
	assert.True(t, c.HasAny("info"))
	snap = store.snapshot(t)
	assert.Empty(t, snap["warning"])
	assert.Len(t, snap["info"], 1)

	err = c.Clear(ctx, "nope", "1")
	assert.ErrorIs(t, err, container.ErrUnknownType)
}

func TestContainer_ClearAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &jsonStore{}
	c := container.New(store, container.WithTypes("success", "error"))
	add(t, c, "success", "", "ok")
	add(t, c, "error", "", "bad")

	require.NoError(t, c.ClearAll(ctx))
	require.NoError(t, c.ClearAll(ctx))

	total, err := c.Count()
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Equal(t, []string{"success", "error"}, c.Types())
	assert.Zero(t, store.snapshot(t).Len())

	// Types survive a global purge.
	add(t, c, "success", "", "again")
	assert.True(t, c.HasAny("success"))
}

func TestContainer_ForgetKeepsStore(t *testing.T) {
	t.Parallel()

	store := &jsonStore{}
	c := container.New(store, container.WithTypes("info", "error"))
	add(t, c, "info", "1", "a")
	add(t, c, "error", "1", "b")

	require.NoError(t, c.Forget("info", "1"))
	assert.False(t, c.Has("info", "1"))
	assert.NotNil(t, store.snapshot(t).Find("info", "1"))

	require.NoError(t, c.ForgetAll())
	assert.False(t, c.HasAny("error"))
	assert.Equal(t, 2, store.snapshot(t).Len())
}

func TestContainer_ClearStoreKeepsMemory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &jsonStore{}
	c := container.New(store, container.WithTypes("info", "error"))
	add(t, c, "info", "1", "a")
	add(t, c, "info", "2", "b")
	add(t, c, "error", "1", "c")

	require.NoError(t, c.ClearFromStore(ctx, "info", "2"))
	snap := store.snapshot(t)
	assert.Nil(t, snap.Find("info", "2"))
	assert.NotNil(t, snap.Find("info", "1"))

	require.NoError(t, c.ClearStore(ctx, "info"))
	snap = store.snapshot(t)
	assert.Empty(t, snap["info"])
	assert.Len(t, snap["error"], 1)

	require.NoError(t, c.ClearStore(ctx))
	assert.Zero(t, store.snapshot(t).Len())

	total, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	assert.ErrorIs(t, c.ClearStore(ctx, "nope"), container.ErrUnknownType)
}
