package cart

import (
	"context"
	"testing"

	"github.com/fernandezlibros/ebookstore/internal/domain/book"
	"github.com/fernandezlibros/ebookstore/internal/infrastructure/persistence/memory"
)

// fakeBookService 测试用书目服务
type fakeBookService struct {
	books map[uint]*book.Book
}

func (s *fakeBookService) GetBookByID(ctx context.Context, id uint) (*book.Book, error) {
	b, ok := s.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return b, nil
}

func (s *fakeBookService) ListBooks(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	return nil, 0, nil
}

func (s *fakeBookService) ListBestsellers(ctx context.Context, limit int) ([]*book.Book, error) {
	return nil, nil
}

func (s *fakeBookService) ListCategories(ctx context.Context) ([]string, error) {
	return nil, nil
}

func newUseCase() *CartUseCase {
	books := &fakeBookService{
		books: map[uint]*book.Book{
			1: {ID: 1, Title: "Hábitos Atómicos para Desarrolladores", Author: "María Fernández", Price: 1999, Category: "Desarrollo Personal", Pages: 320},
			2: {ID: 2, Title: "El Arte de Enfocarse", Author: "María Fernández", Price: 1699, Category: "Productividad", Pages: 256},
		},
	}
	return NewCartUseCase(memory.NewCartStore(), books)
}

// TestCartUseCase_AddItem 加购并验证三行金额
func TestCartUseCase_AddItem(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	view, err := uc.AddItem(ctx, "sess-1", 1)
	if err != nil {
		t.Fatalf("AddItem失败: %v", err)
	}

	if view.TotalItemCount != 1 {
		t.Errorf("期望件数1，实际%d", view.TotalItemCount)
	}
	if view.Subtotal != 1999 {
		t.Errorf("期望小计1999，实际%d", view.Subtotal)
	}
	// 税费 = 1999 × 10% = 199(向零取整)
	if view.Tax != 199 {
		t.Errorf("期望税费199，实际%d", view.Tax)
	}
	if view.Total != 2198 {
		t.Errorf("期望总计2198，实际%d", view.Total)
	}
	if view.SubtotalUSD != "19.99" {
		t.Errorf("期望小计19.99，实际%s", view.SubtotalUSD)
	}

	t.Log("✅ 加购成功,三行金额正确")
}

// TestCartUseCase_AddItem_BookNotFound 加购不存在的书
func TestCartUseCase_AddItem_BookNotFound(t *testing.T) {
	uc := newUseCase()

	_, err := uc.AddItem(context.Background(), "sess-1", 999)
	if err == nil {
		t.Fatal("不存在的书应该加购失败")
	}

	// 失败后购物车保持为空
	view, _ := uc.GetCart(context.Background(), "sess-1")
	if view.TotalItemCount != 0 {
		t.Error("失败的加购不应该修改购物车")
	}
}

// TestCartUseCase_AddItem_Repeated 重复加购同一本书数量+1且价格不变
func TestCartUseCase_AddItem_Repeated(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	uc.AddItem(ctx, "sess-1", 1)
	view, err := uc.AddItem(ctx, "sess-1", 1)
	if err != nil {
		t.Fatalf("AddItem失败: %v", err)
	}

	if len(view.Items) != 1 {
		t.Fatalf("期望1个明细行，实际%d", len(view.Items))
	}
	if view.Items[0].Quantity != 2 {
		t.Errorf("期望数量2，实际%d", view.Items[0].Quantity)
	}
	if view.Items[0].Price != 1999 {
		t.Errorf("单价应保持首次加购价1999，实际%d", view.Items[0].Price)
	}
	if view.Items[0].LineTotal != 3998 {
		t.Errorf("期望行小计3998，实际%d", view.Items[0].LineTotal)
	}
}

// TestCartUseCase_UpdateQuantity 调整数量,0表示移除
func TestCartUseCase_UpdateQuantity(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	uc.AddItem(ctx, "sess-1", 1)
	uc.AddItem(ctx, "sess-1", 2)

	view, err := uc.UpdateQuantity(ctx, "sess-1", 1, 3)
	if err != nil {
		t.Fatalf("UpdateQuantity失败: %v", err)
	}
	// 3×1999 + 1×1699 = 7696
	if view.Subtotal != 7696 {
		t.Errorf("期望小计7696，实际%d", view.Subtotal)
	}

	// 数量调到0等价于移除
	view, _ = uc.UpdateQuantity(ctx, "sess-1", 1, 0)
	if len(view.Items) != 1 || view.Items[0].BookID != 2 {
		t.Errorf("数量0应该移除该行，实际明细: %+v", view.Items)
	}
}

// TestCartUseCase_RemoveAndClear 移除与清空
func TestCartUseCase_RemoveAndClear(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	uc.AddItem(ctx, "sess-1", 1)
	uc.AddItem(ctx, "sess-1", 2)

	view, err := uc.RemoveItem(ctx, "sess-1", 1)
	if err != nil {
		t.Fatalf("RemoveItem失败: %v", err)
	}
	if view.TotalItemCount != 1 {
		t.Errorf("移除后期望件数1，实际%d", view.TotalItemCount)
	}

	view, err = uc.Clear(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Clear失败: %v", err)
	}
	if view.TotalItemCount != 0 || view.Subtotal != 0 {
		t.Error("清空后应该归零")
	}
}

// TestCartUseCase_PanelState 面板开关随购物车视图返回
func TestCartUseCase_PanelState(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	view, _ := uc.GetCart(ctx, "sess-1")
	if view.PanelOpen {
		t.Error("面板默认应该关闭")
	}

	if err := uc.SetPanelOpen(ctx, "sess-1", true); err != nil {
		t.Fatalf("SetPanelOpen失败: %v", err)
	}

	view, _ = uc.GetCart(ctx, "sess-1")
	if !view.PanelOpen {
		t.Error("设置后面板应该是打开的")
	}
}

// TestCartUseCase_SessionIsolation 不同会话的购物车互不影响
func TestCartUseCase_SessionIsolation(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	uc.AddItem(ctx, "sess-a", 1)

	view, _ := uc.GetCart(ctx, "sess-b")
	if view.TotalItemCount != 0 {
		t.Error("会话b不应该看到会话a的购物车")
	}
}
