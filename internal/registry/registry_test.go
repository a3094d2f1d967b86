package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/dgrun/internal/session"
)

type stubModule struct {
	name string
	rec  *session.Recorder
}

func (m *stubModule) Register(r *Registry) {
	r.RegisterEngine(m.name, func(ctx context.Context, env Env) (session.Engine, error) {
		return m.rec, nil
	})
}

func TestRegistry_NewEngine(t *testing.T) {
	r := New()
	rec := session.NewRecorder()
	(&stubModule{name: "stub", rec: rec}).Register(r)

	require.True(t, r.Has("stub"))
	e, err := r.NewEngine(context.Background(), "stub", Env{})
	require.NoError(t, err)
	assert.Same(t, rec, e)
}

func TestRegistry_UnknownEngine(t *testing.T) {
	r := New()
	(&stubModule{name: "b"}).Register(r)
	(&stubModule{name: "a"}).Register(r)

	_, err := r.NewEngine(context.Background(), "c", Env{})
	assert.EqualError(t, err, `unknown engine "c" (available: [a b])`)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := New()
	(&stubModule{name: "a"}).Register(r)

	assert.Panics(t, func() { (&stubModule{name: "a"}).Register(r) })
}
