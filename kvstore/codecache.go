package kvstore

import (
	"github.com/ava-labs/avalanchego/cache"

	"github.com/qtumproject/neutron-core/address"
)

// defaultCodeCacheSize matches the order of magnitude of
// timestampvm/block_state.go's blockCacheSize; contract bytecode blobs are
// bigger than blocks but far less numerous than state-slot reads.
const defaultCodeCacheSize = 1024

// CodeCache is a read-through LRU cache over a Store's bytecode entries,
// grounded directly on timestampvm/block_state.go's blkCache field
// (cache.LRU keyed by ids.ID, here keyed by address.Address instead of a
// block ID). Contract bytecode is immutable once deployed, so entries are
// never invalidated one by one: PutCode overwrites an entry and Flush
// clears them all. Misses are cached too, as a nil entry.
type CodeCache struct {
	underlying Store
	cache      cache.Cacher
}

// NewCodeCache wraps a Store with bytecode caching. size <= 0 selects
// defaultCodeCacheSize.
func NewCodeCache(underlying Store, size int) *CodeCache {
	if size <= 0 {
		size = defaultCodeCacheSize
	}
	return &CodeCache{
		underlying: underlying,
		cache:      &cache.LRU{Size: size},
	}
}

// GetCode returns the cached bytecode for addr, reading through to the
// underlying store on a miss.
func (c *CodeCache) GetCode(addr address.Address, key []byte) ([]byte, bool, error) {
	if v, ok := c.cache.Get(addr); ok {
		if v == nil {
			return nil, false, nil
		}
		return v.([]byte), true, nil
	}
	v, found, err := c.underlying.Read(key)
	if err != nil {
		return nil, false, err
	}
	c.cache.Put(addr, v)
	return v, found, nil
}

// PutCode writes bytecode to the underlying store and refreshes the cache
// entry.
func (c *CodeCache) PutCode(addr address.Address, key, value []byte) error {
	if err := c.underlying.Write(key, value); err != nil {
		return err
	}
	c.cache.Put(addr, value)
	return nil
}

// Flush clears every cached entry; called whenever the underlying store
// might be bulk-mutated out from under the cache (e.g. a revert that
// discards a just-deployed contract's code).
func (c *CodeCache) Flush() {
	c.cache.Flush()
}
