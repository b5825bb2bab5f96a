package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdujack2012/remic/internal/lens"
	"github.com/sdujack2012/remic/internal/tree"
)

func initialTree() tree.Value {
	return tree.Map{
		"toDos": tree.Map{
			"1": tree.Map{"description": tree.String("todo1"), "isFinished": tree.Bool(false)},
		},
		"loadingStatus": tree.Map{"isLoadingToDos": tree.Bool(true)},
	}
}

func addToDo(key string, description string) Updater[tree.Value] {
	return Func(func(todos tree.Value) tree.Value {
		return lens.Write(todos, key, tree.Map{"description": tree.String(description), "isFinished": tree.Bool(false)})
	})
}

func TestPath_IsolatesSubState(t *testing.T) {
	before := initialTree()
	s := New(before)

	var seen tree.Value
	spy := func(_ context.Context, todos tree.Value) (tree.Value, error) {
		seen = todos
		return addToDo("5", "todo5")(context.Background(), todos)
	}

	after, err := s.Update(context.Background(), Path("toDos").Updater(spy))
	require.NoError(t, err)

	b, a := before.(tree.Map), after.(tree.Map)
	assert.True(t, tree.Same(b["toDos"], seen), "updater receives only the sub-state")
	assert.False(t, tree.Same(b, a), "new root")
	assert.False(t, tree.Same(b["toDos"], a["toDos"]), "new toDos")
	assert.True(t, tree.Same(b["loadingStatus"], a["loadingStatus"]), "loadingStatus untouched")

	got, ok := lens.Read(after, "toDos.5.description")
	require.True(t, ok)
	assert.Equal(t, tree.String("todo5"), got)

	_, ok = lens.Read(before, "toDos.5")
	assert.False(t, ok, "previous version unchanged")
}

func TestPath_AbsentSubStateIsNil(t *testing.T) {
	var seen tree.Value = tree.String("sentinel")
	u := Path("missing.branch").Updater(func(_ context.Context, v tree.Value) (tree.Value, error) {
		seen = v
		return tree.Number(1), nil
	})

	out, err := u(context.Background(), initialTree())
	require.NoError(t, err)
	assert.Nil(t, seen)

	got, ok := lens.Read(out, "missing.branch")
	require.True(t, ok)
	assert.Equal(t, tree.Number(1), got)
}

func TestPath_ErrorNamesPath(t *testing.T) {
	boom := errors.New("fetch failed")
	u := Path("toDos").Updater(func(context.Context, tree.Value) (tree.Value, error) {
		return nil, boom
	})

	_, err := u(context.Background(), initialTree())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "toDos")
}

func TestPartial_ThunkKeepsParameters(t *testing.T) {
	remove := func(args ...any) Updater[tree.Value] {
		key := args[0].(string)
		return Func(func(v tree.Value) tree.Value { return lens.Delete(v, key) })
	}

	removeToDo := Path("toDos").Thunk(remove)
	out, err := removeToDo("1")(context.Background(), initialTree())
	require.NoError(t, err)

	todos, ok := lens.Read(out, "toDos")
	require.True(t, ok)
	assert.Equal(t, tree.Map{}, todos)
}

func TestPartial_ThunksKeepsKeys(t *testing.T) {
	wrapped := Path("loadingStatus").Thunks(map[string]Thunk[tree.Value]{
		"set": func(args ...any) Updater[tree.Value] {
			return Func(func(v tree.Value) tree.Value {
				return lens.Write(v, "isLoadingToDos", tree.Bool(args[0].(bool)))
			})
		},
		"noop": func(...any) Updater[tree.Value] {
			return Func(func(v tree.Value) tree.Value { return v })
		},
	})
	require.Len(t, wrapped, 2)
	require.Contains(t, wrapped, "noop")

	out, err := wrapped["set"](false)(context.Background(), initialTree())
	require.NoError(t, err)
	assert.False(t, lens.BoolField("loadingStatus.isLoadingToDos").Or(out, true))
}

type profile struct {
	Name  string
	Prefs map[string]string
}

func TestCustom_StructLens(t *testing.T) {
	name := Custom(
		func(p profile) string { return p.Name },
		func(p profile, n string) profile { p.Name = n; return p },
	)

	s := New(profile{Name: "ada"})
	upper := Lift(name, func(suffix string) Updater[string] {
		return Func(func(n string) string { return n + suffix })
	})

	out, err := s.Update(context.Background(), upper("!"))
	require.NoError(t, err)
	assert.Equal(t, "ada!", out.Name)
}

func TestMerge_ThreadsResultsAndCommitsOnce(t *testing.T) {
	s := New(1)
	commits := 0
	s.Subscribe(func(int, int) { commits++ })

	out, err := s.Update(context.Background(), Merge(add(1), Func(func(v int) int { return v * 10 }), add(3)))
	require.NoError(t, err)
	assert.Equal(t, 23, out)
	assert.Equal(t, 1, commits)
}

func TestMerge_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	u := Merge(add(1), func(context.Context, int) (int, error) { return 0, boom }, func(_ context.Context, v int) (int, error) {
		ran = true
		return v, nil
	})

	_, err := u(context.Background(), 0)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "merged updater 2")
	assert.False(t, ran)
}

func TestReplaceAndDelay(t *testing.T) {
	s := New(1)

	start := time.Now()
	out, err := s.Update(context.Background(), Delay(20*time.Millisecond, Replace(9)))
	require.NoError(t, err)
	assert.Equal(t, 9, out)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
