package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fernandezlibros/ebookstore/internal/domain/cart"
	apperrors "github.com/fernandezlibros/ebookstore/pkg/errors"
)

// CartStore 基于Redis的购物车存储(实现cart.Store接口)
// 设计说明：
// 1. 游客购物车天然适合Redis:有TTL、读写频繁、允许最终一致
// 2. Key设计：cart:{session_id}(明细JSON)、cart:panel:{session_id}(面板开关)
// 3. 整体覆盖写:购物车很小(通常<10行),不值得做按行增量更新
// 4. TTL与会话有效期一致,会话过期购物车跟着过期,无需手动清理
type CartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartStore 创建购物车存储
func NewCartStore(client *redis.Client, ttl time.Duration) *CartStore {
	return &CartStore{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

func panelKey(sessionID string) string {
	return fmt.Sprintf("cart:panel:%s", sessionID)
}

// Load 读取会话的购物车
// 学习要点:Key不存在不是错误——游客第一次打开页面购物车就是空的,
// 这里返回空购物车,调用方不需要区分"没存过"和"存了个空的"
func (s *CartStore) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err == redis.Nil {
		return cart.New(), nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "读取购物车失败")
	}

	var items []cart.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		// 数据损坏按空购物车处理,丢明细比整个接口不可用好
		return cart.New(), nil
	}

	// Restore会丢弃违反不变式的行
	return cart.Restore(items), nil
}

// Save 保存会话的购物车(整体覆盖)
func (s *CartStore) Save(ctx context.Context, sessionID string, c *cart.Cart) error {
	data, err := json.Marshal(c.Items())
	if err != nil {
		return apperrors.Wrap(err, "序列化购物车失败")
	}

	if err := s.client.Set(ctx, cartKey(sessionID), data, s.ttl).Err(); err != nil {
		return apperrors.Wrap(err, "保存购物车失败")
	}
	return nil
}

// Delete 删除会话的购物车及面板状态
func (s *CartStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID), panelKey(sessionID)).Err(); err != nil {
		return apperrors.Wrap(err, "删除购物车失败")
	}
	return nil
}

// SetPanelOpen 设置购物车面板开关
// 面板状态与购物车明细互不约束,但生命周期一致,TTL保持相同
func (s *CartStore) SetPanelOpen(ctx context.Context, sessionID string, open bool) error {
	val := "0"
	if open {
		val = "1"
	}
	if err := s.client.Set(ctx, panelKey(sessionID), val, s.ttl).Err(); err != nil {
		return apperrors.Wrap(err, "保存面板状态失败")
	}
	return nil
}

// IsPanelOpen 读取购物车面板开关,默认false
func (s *CartStore) IsPanelOpen(ctx context.Context, sessionID string) (bool, error) {
	val, err := s.client.Get(ctx, panelKey(sessionID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrap(err, "读取面板状态失败")
	}
	return val == "1", nil
}

// =========================================
// 学习要点总结
// =========================================
//
// 1. 为什么购物车放Redis而不是MySQL?
//    - 游客购物车没有账号归属,不需要永久保存
//    - 读写频率高(每次+/-都要写),Redis的内存写更合适
//    - TTL天然匹配"会话过期购物车作废"的业务规则
//
// 2. Key设计规范
//    - cart:{session_id}: 明细JSON
//    - cart:panel:{session_id}: 面板开关
//    - 使用冒号分隔命名空间,便于管理和监控
//
// 3. 为什么存明细而不存派生值(件数/小计)?
//    - 派生值由购物车聚合唯一计算,存储层只负责明细的持久化
//    - 存两份迟早不一致,读出来重算的成本可以忽略
