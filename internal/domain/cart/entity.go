package cart

// Product 加入购物车的商品入参
// 设计说明:
// 1. 显式定义商品形状,在Add边界做校验(不接受"鸭子类型"的任意对象)
// 2. 不直接引用book.Book,避免跨聚合引用(与Order只保存BookID同理)
// 3. 价格使用int64存储"分"为单位(避免浮点数精度问题)
type Product struct {
	ID       uint   // 商品ID(购物车内的唯一身份标识)
	Title    string // 书名
	Author   string // 作者
	Cover    string // 封面图片URL
	Category string // 分类
	Price    int64  // 单价(分)
	Pages    int    // 页数
}

// LineItem 购物车明细项
// 教学要点:
// 1. 身份标识就是商品ID,同一商品在购物车中只有一行
// 2. 除Quantity外的字段都是加入时的快照,商品目录后续改价不回写
//    (与OrderItem记录"下单时价格"是同一个思路)
// 3. Quantity恒≥1,数量降到0以下等价于删除该行
type LineItem struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Cover    string `json:"cover"`
	Category string `json:"category"`
	Price    int64  `json:"price"` // 加入时单价快照(分)
	Pages    int    `json:"pages"`
	Quantity int    `json:"quantity"`
}

// Cart 购物车聚合根
// 设计说明:
// 1. 明细按加入顺序保存(展示顺序),顺序对金额计算无语义
// 2. 所有派生值(件数、小计)只在这里计算,消费方不得自行累加
//    (避免各页面各算各的,出现舍入或口径不一致)
// 3. 四个修改操作都是全函数:未知ID按无操作处理,不报错
type Cart struct {
	items []LineItem
}

// Snapshot 购物车派生值快照
// 教学要点:
// 每个修改操作都返回最新快照,调用方拿到的件数/小计永远是新值,
// 不需要(也不应该)在修改后再去自己算一遍
type Snapshot struct {
	TotalItemCount int   `json:"total_item_count"` // Σ数量(不是行数)
	Subtotal       int64 `json:"subtotal"`         // Σ单价×数量(分),税前
}

// New 创建空购物车
func New() *Cart {
	return &Cart{items: make([]LineItem, 0)}
}

// Add 加入商品
// 行为规则:
// 1. 同ID已存在 → 数量+1,价格保持首次加入时的快照(不用新传入的价格)
// 2. 不存在 → 追加到末尾,数量为1
// 3. 商品ID为0或价格为负 → 返回ErrInvalidProduct,防止脏数据混进金额统计
func (c *Cart) Add(p Product) (Snapshot, error) {
	if p.ID == 0 || p.Price < 0 {
		return c.Snapshot(), ErrInvalidProduct
	}

	for i := range c.items {
		if c.items[i].ID == p.ID {
			c.items[i].Quantity++
			return c.Snapshot(), nil
		}
	}

	c.items = append(c.items, LineItem{
		ID:       p.ID,
		Title:    p.Title,
		Author:   p.Author,
		Cover:    p.Cover,
		Category: p.Category,
		Price:    p.Price,
		Pages:    p.Pages,
		Quantity: 1,
	})
	return c.Snapshot(), nil
}

// Remove 整行删除
// 无论当前数量是多少,该明细直接消失;ID不存在时无操作
func (c *Cart) Remove(id uint) Snapshot {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	return c.Snapshot()
}

// SetQuantity 设置目标数量
// 教学要点:"减到0即删除"的规则集中在这里实现
// 页面上的+/-按钮统一表达为SetQuantity(id, 当前数量±1),
// 不允许各调用点自己判断下限,否则规则迟早写出分叉
//
// 行为规则:
// 1. quantity ≥ 1 → 设为该值(对固定(id,quantity)幂等)
// 2. quantity ≤ 0 → 等价于Remove(id)
// 3. ID不存在 → 无操作
func (c *Cart) SetQuantity(id uint, quantity int) Snapshot {
	if quantity <= 0 {
		return c.Remove(id)
	}
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = quantity
			break
		}
	}
	return c.Snapshot()
}

// Clear 清空购物车
// 两个触发场景:用户点"清空"、结算成功后的收尾动作
// 对已空购物车调用同样安全
func (c *Cart) Clear() Snapshot {
	c.items = c.items[:0]
	return c.Snapshot()
}

// Items 返回明细副本(按加入顺序)
// 返回副本而非内部切片,防止调用方绕过Add/Remove直接改数据
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// TotalItemCount 购物车总件数
// 注意是数量之和,不是明细行数:同一本书买3本算3件
func (c *Cart) TotalItemCount() int {
	count := 0
	for i := range c.items {
		count += c.items[i].Quantity
	}
	return count
}

// Subtotal 税前小计(分)
func (c *Cart) Subtotal() int64 {
	var subtotal int64
	for i := range c.items {
		subtotal += c.items[i].Price * int64(c.items[i].Quantity)
	}
	return subtotal
}

// Snapshot 生成当前派生值快照
func (c *Cart) Snapshot() Snapshot {
	return Snapshot{
		TotalItemCount: c.TotalItemCount(),
		Subtotal:       c.Subtotal(),
	}
}

// IsEmpty 是否为空
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Restore 从已保存的明细重建购物车(供存储层反序列化使用)
// 只接受满足不变式的明细:数量<1或ID为0的行直接丢弃
func Restore(items []LineItem) *Cart {
	c := New()
	for _, it := range items {
		if it.ID == 0 || it.Quantity < 1 || it.Price < 0 {
			continue
		}
		c.items = append(c.items, it)
	}
	return c
}
