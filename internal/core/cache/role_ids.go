package cache

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Loader fetches a role id from the store on a cache miss.
type Loader func(ctx context.Context) (int64, error)

// RoleIDs memoizes role-name -> id lookups. Entries may be stale until
// Invalidate or Reset is called.
type RoleIDs interface {
	GetOrLoad(ctx context.Context, roleName string, load Loader) (int64, error)
	Invalidate(roleName string)
	Reset()
}

type LRURoleIDs struct {
	entries *lru.Cache[string, int64]
}

func NewRoleIDs(size int) (*LRURoleIDs, error) {
	if size <= 0 {
		size = 32
	}
	c, err := lru.New[string, int64](size)
	if err != nil {
		return nil, err
	}
	return &LRURoleIDs{entries: c}, nil
}

func (c *LRURoleIDs) GetOrLoad(ctx context.Context, roleName string, load Loader) (int64, error) {
	key := strings.ToUpper(roleName)
	if id, ok := c.entries.Get(key); ok {
		return id, nil
	}

	id, err := load(ctx)
	if err != nil {
		return 0, err
	}
	c.entries.Add(key, id)
	return id, nil
}

func (c *LRURoleIDs) Invalidate(roleName string) {
	c.entries.Remove(strings.ToUpper(roleName))
}

func (c *LRURoleIDs) Reset() {
	c.entries.Purge()
}
