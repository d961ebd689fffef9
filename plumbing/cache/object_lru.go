package cache

import (
	"container/list"
	"sync"

	"github.com/wit-vcs/wit/plumbing"
)

// ObjectLRU implements Object as an LRU bounded by total decoded size,
// not entry count: evicting by count alone would let a handful of large
// trees starve the cache for everything else.
type ObjectLRU struct {
	MaxSize FileSize

	mu         sync.Mutex
	actualSize FileSize
	ll         *list.List
	cache      map[plumbing.Hash]*list.Element
}

type objectLRUEntry struct {
	hash   plumbing.Hash
	object plumbing.EncodedObject
}

// NewObjectLRU returns an Object cache bounded at maxSize.
func NewObjectLRU(maxSize FileSize) *ObjectLRU {
	return &ObjectLRU{MaxSize: maxSize}
}

// NewObjectLRUDefault returns an Object cache bounded at DefaultMaxSize.
func NewObjectLRUDefault() *ObjectLRU {
	return NewObjectLRU(DefaultMaxSize)
}

func (c *ObjectLRU) Put(o plumbing.EncodedObject) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cache == nil {
		c.actualSize = 0
		c.ll = list.New()
		c.cache = make(map[plumbing.Hash]*list.Element)
	}

	hash := o.Hash()
	if ee, ok := c.cache[hash]; ok {
		c.ll.MoveToFront(ee)
		old := ee.Value.(*objectLRUEntry)
		c.actualSize -= FileSize(old.object.Size())
		ee.Value = &objectLRUEntry{hash, o}
		c.actualSize += FileSize(o.Size())
	} else {
		ele := c.ll.PushFront(&objectLRUEntry{hash, o})
		c.cache[hash] = ele
		c.actualSize += FileSize(o.Size())
	}

	for c.actualSize > c.MaxSize {
		last := c.ll.Back()
		if last == nil {
			c.actualSize = 0
			break
		}
		c.removeElement(last)
	}
}

func (c *ObjectLRU) Get(k plumbing.Hash) (plumbing.EncodedObject, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ee, ok := c.cache[k]
	if !ok {
		return nil, false
	}

	c.ll.MoveToFront(ee)
	return ee.Value.(*objectLRUEntry).object, true
}

func (c *ObjectLRU) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ll = nil
	c.cache = nil
	c.actualSize = 0
}

func (c *ObjectLRU) removeElement(e *list.Element) {
	c.ll.Remove(e)
	ent := e.Value.(*objectLRUEntry)
	delete(c.cache, ent.hash)
	c.actualSize -= FileSize(ent.object.Size())
}
