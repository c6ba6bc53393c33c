package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/fernandezlibros/ebookstore/internal/domain/cart"
)

func sampleProduct() cart.Product {
	return cart.Product{
		ID:       1,
		Title:    "Hábitos Atómicos para Desarrolladores",
		Author:   "María Fernández",
		Category: "Desarrollo Personal",
		Price:    1999,
		Pages:    320,
	}
}

// TestCartStore_LoadEmpty 未保存过的会话返回空购物车
func TestCartStore_LoadEmpty(t *testing.T) {
	store := NewCartStore()

	c, err := store.Load(context.Background(), "sess-new")
	if err != nil {
		t.Fatalf("Load失败: %v", err)
	}

	if !c.IsEmpty() {
		t.Error("新会话应该返回空购物车")
	}

	t.Log("✅ 空会话返回空购物车")
}

// TestCartStore_SaveAndLoad 保存后读取内容一致
func TestCartStore_SaveAndLoad(t *testing.T) {
	store := NewCartStore()
	ctx := context.Background()

	c := cart.New()
	if _, err := c.Add(sampleProduct()); err != nil {
		t.Fatalf("Add失败: %v", err)
	}
	c.SetQuantity(1, 3)

	if err := store.Save(ctx, "sess-1", c); err != nil {
		t.Fatalf("Save失败: %v", err)
	}

	loaded, err := store.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Load失败: %v", err)
	}

	if loaded.TotalItemCount() != 3 {
		t.Errorf("期望件数3，实际%d", loaded.TotalItemCount())
	}
	if loaded.Subtotal() != 5997 {
		t.Errorf("期望小计5997，实际%d", loaded.Subtotal())
	}

	// 会话隔离:其他会话读不到
	other, _ := store.Load(ctx, "sess-2")
	if !other.IsEmpty() {
		t.Error("会话之间购物车应该隔离")
	}

	t.Log("✅ 保存/读取一致且会话隔离")
}

// TestCartStore_SaveIsSnapshot 保存后继续修改原购物车不影响存储内容
func TestCartStore_SaveIsSnapshot(t *testing.T) {
	store := NewCartStore()
	ctx := context.Background()

	c := cart.New()
	c.Add(sampleProduct())
	store.Save(ctx, "sess-1", c)

	// 保存后继续改
	c.SetQuantity(1, 10)

	loaded, _ := store.Load(ctx, "sess-1")
	if loaded.TotalItemCount() != 1 {
		t.Errorf("存储内容不应随外部修改变化，期望1，实际%d", loaded.TotalItemCount())
	}
}

// TestCartStore_Delete 删除后购物车和面板状态都清空
func TestCartStore_Delete(t *testing.T) {
	store := NewCartStore()
	ctx := context.Background()

	c := cart.New()
	c.Add(sampleProduct())
	store.Save(ctx, "sess-1", c)
	store.SetPanelOpen(ctx, "sess-1", true)

	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("Delete失败: %v", err)
	}

	loaded, _ := store.Load(ctx, "sess-1")
	if !loaded.IsEmpty() {
		t.Error("删除后应该返回空购物车")
	}

	open, _ := store.IsPanelOpen(ctx, "sess-1")
	if open {
		t.Error("删除后面板状态应该重置为false")
	}

	t.Log("✅ 删除清空购物车和面板状态")
}

// TestCartStore_PanelOpen 面板开关的读写
func TestCartStore_PanelOpen(t *testing.T) {
	store := NewCartStore()
	ctx := context.Background()

	// 默认关闭
	open, err := store.IsPanelOpen(ctx, "sess-1")
	if err != nil {
		t.Fatalf("IsPanelOpen失败: %v", err)
	}
	if open {
		t.Error("面板默认应该是关闭的")
	}

	store.SetPanelOpen(ctx, "sess-1", true)
	open, _ = store.IsPanelOpen(ctx, "sess-1")
	if !open {
		t.Error("设置打开后应该读到true")
	}

	store.SetPanelOpen(ctx, "sess-1", false)
	open, _ = store.IsPanelOpen(ctx, "sess-1")
	if open {
		t.Error("设置关闭后应该读到false")
	}
}

// TestCartStore_ConcurrentAccess 并发读写不崩溃(配合-race使用)
func TestCartStore_ConcurrentAccess(t *testing.T) {
	store := NewCartStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c := cart.New()
			c.Add(sampleProduct())
			store.Save(ctx, "sess-shared", c)
			store.Load(ctx, "sess-shared")
			store.SetPanelOpen(ctx, "sess-shared", n%2 == 0)
			store.IsPanelOpen(ctx, "sess-shared")
		}(i)
	}
	wg.Wait()

	t.Log("✅ 并发访问安全")
}
