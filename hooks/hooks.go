package hooks

import (
	"context"
	"sync"

	"blog-server/db"
)

const (
	HealthCheck   = "health_check"
	DidCreatePost = "did_create_post"
)

type HookParams struct {
	Ctx  context.Context
	Post *db.Post
}

type HookError struct {
	Status int
	Msg    string
}

func (e *HookError) Error() string {
	return e.Msg
}

type Hook func(params HookParams) *HookError

var (
	mu    sync.RWMutex
	hooks = make(map[string]Hook)
)

func RegisterHook(name string, hook Hook) {
	mu.Lock()
	defer mu.Unlock()
	hooks[name] = hook
}

func UnregisterHook(name string) {
	mu.Lock()
	defer mu.Unlock()
	delete(hooks, name)
}

// ExecHook runs the named hook. Missing hooks are a no-op.
func ExecHook(name string, params HookParams) *HookError {
	mu.RLock()
	hook, ok := hooks[name]
	mu.RUnlock()
	if !ok {
		return nil
	}
	return hook(params)
}
