package kvstore

import "context"

// Namespaced prefixes every key before delegating to the wrapped store.
type Namespaced struct {
	store  Store
	prefix string
}

// NewNamespaced scopes store to keys starting with prefix.
func NewNamespaced(store Store, prefix string) *Namespaced {
	return &Namespaced{store: store, prefix: prefix}
}

// Ensure Namespaced implements Store
var _ Store = (*Namespaced)(nil)

// SessionPrefix is the namespace used for one browser session.
func SessionPrefix(sessionID string) string {
	return "session:" + sessionID + ":"
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.store.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Set(ctx context.Context, key, value string) error {
	return n.store.Set(ctx, n.prefix+key, value)
}

func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.store.Delete(ctx, n.prefix+key)
}

func (n *Namespaced) Ping(ctx context.Context) error {
	return n.store.Ping(ctx)
}
