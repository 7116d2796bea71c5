package ebml

import (
	"container/list"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// unknownIDCache is a small bounded LRU of element IDs a WarnFunc has
// already been called for, so a master with thousands of repeated unknown
// children (a real shape in streaming parse of huge files) logs each
// distinct ID once instead of once per occurrence. Keyed by xxhash of the
// ID's 4-byte big-endian form rather than the ID itself, mirroring the
// "hash a fixed-width key fast" job arloliu/mebo's tag index does — cheap
// here, but it keeps the cache's key type uniform if a future dispatch
// cache keys on a wider (ID, parent) pair.
type unknownIDCache struct {
	capacity int
	ll       *list.List
	index    map[uint64]*list.Element
}

func newUnknownIDCache(capacity int) *unknownIDCache {
	return &unknownIDCache{
		capacity: capacity,
		ll:       list.New(),
		index:    make(map[uint64]*list.Element),
	}
}

func idKey(id ElementID) uint64 {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(id))
	return xxhash.Sum64(buf[:])
}

// seen reports whether id was already recorded, recording it (and evicting
// the oldest entry past capacity) if not.
func (c *unknownIDCache) seen(id ElementID) bool {
	key := idKey(id)
	if elem, ok := c.index[key]; ok {
		c.ll.MoveToFront(elem)
		return true
	}
	elem := c.ll.PushFront(key)
	c.index[key] = elem
	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.index, oldest.Value.(uint64))
		}
	}
	return false
}

// warnOnce wraps warn so repeated IDs beyond the first are suppressed,
// using a cache capacity of 256 distinct IDs — generous for any one
// master's realistic set of unknown sibling types, bounded so a
// maliciously varied ID stream can't grow it unbounded.
func warnOnce(warn WarnFunc) WarnFunc {
	if warn == nil {
		return nil
	}
	cache := newUnknownIDCache(256)
	return func(id ElementID, msg string) {
		if cache.seen(id) {
			return
		}
		warn(id, msg)
	}
}
