package nutrition

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/2beens/fitcoach/internal/api"
	log "github.com/sirupsen/logrus"
)

const DefaultPageSize = 10

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=nutrition_test

type Lister interface {
	FetchNutritionList(ctx context.Context, page, pageSize int) (*api.Page[api.NutritionItem], error)
}

// Cache keeps nutrition plan pages by page number until logout.
type Cache struct {
	lister  Lister
	loading atomic.Int32

	mu    sync.RWMutex
	pages map[int][]api.NutritionItem
}

func NewCache(lister Lister) *Cache {
	return &Cache{
		lister: lister,
		pages:  make(map[int][]api.NutritionItem),
	}
}

// List returns one page. A cached page carries no HasMore/Total, as the server is not asked.
func (c *Cache) List(ctx context.Context, page, pageSize int) (*api.Page[api.NutritionItem], error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	c.mu.RLock()
	items, ok := c.pages[page]
	c.mu.RUnlock()
	if ok {
		log.Debugf("nutrition: page %d from cache", page)
		return &api.Page[api.NutritionItem]{Success: true, Items: items, Page: page}, nil
	}

	c.loading.Add(1)
	defer c.loading.Add(-1)

	resp, err := c.lister.FetchNutritionList(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("nutrition list page %d: %w", page, err)
	}

	if resp.Items != nil {
		c.mu.Lock()
		c.pages[page] = resp.Items
		c.mu.Unlock()
	}
	return resp, nil
}

// Loading reports whether a server call is in flight.
func (c *Cache) Loading() bool {
	return c.loading.Load() > 0
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = make(map[int][]api.NutritionItem)
}
