package memory

import (
	"context"
	"sync"

	"github.com/fernandezlibros/ebookstore/internal/domain/cart"
)

// CartStore 内存版购物车存储(实现cart.Store接口)
// 用于单元测试和本地开发,不依赖Redis
// 注意:没有TTL,进程重启数据丢失,仅限非生产环境
type CartStore struct {
	mu     sync.RWMutex
	items  map[string][]cart.LineItem
	panels map[string]bool
}

// NewCartStore 创建内存购物车存储
func NewCartStore() *CartStore {
	return &CartStore{
		items:  make(map[string][]cart.LineItem),
		panels: make(map[string]bool),
	}
}

func (s *CartStore) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.items[sessionID]
	if !ok {
		return cart.New(), nil
	}
	return cart.Restore(items), nil
}

func (s *CartStore) Save(ctx context.Context, sessionID string, c *cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Items()已返回副本,直接持有即可
	s.items[sessionID] = c.Items()
	return nil
}

func (s *CartStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, sessionID)
	delete(s.panels, sessionID)
	return nil
}

func (s *CartStore) SetPanelOpen(ctx context.Context, sessionID string, open bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.panels[sessionID] = open
	return nil
}

func (s *CartStore) IsPanelOpen(ctx context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.panels[sessionID], nil
}
