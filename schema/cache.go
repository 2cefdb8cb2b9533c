package schema

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/arloliu/chromadec/internal/hash"
)

// DefaultCacheSize bounds the number of compiled plans a Cache keeps.
const DefaultCacheSize = 64

// Cache keeps compiled plans keyed by the xxHash64 of the schema document
// and the root type name. Acquisitions from one instrument share the same
// MSScan.xsd, so a batch compiles it once.
//
// Cache is safe for concurrent use.
type Cache struct {
	plans *lru.Cache[uint64, *Plan]
}

// NewCache creates a cache holding at most size plans.
func NewCache(size int) (*Cache, error) {
	plans, err := lru.New[uint64, *Plan](size)
	if err != nil {
		return nil, fmt.Errorf("create plan cache: %w", err)
	}

	return &Cache{plans: plans}, nil
}

// Plan returns the compiled plan for root in the XSD document, parsing and
// compiling it on a miss. Failed compilations are not cached.
func (c *Cache) Plan(xsd []byte, root string) (*Plan, error) {
	key := hash.Key(xsd, root)
	if plan, ok := c.plans.Get(key); ok {
		return plan, nil
	}

	plan, err := CompileXSD(xsd, root)
	if err != nil {
		return nil, err
	}
	c.plans.Add(key, plan)

	return plan, nil
}

// Len returns the number of cached plans.
func (c *Cache) Len() int {
	return c.plans.Len()
}

// CompileXSD parses an XSD document and compiles root without caching.
func CompileXSD(xsd []byte, root string) (*Plan, error) {
	s, err := ParseXSDBytes(xsd)
	if err != nil {
		return nil, err
	}

	return s.Compile(root)
}
