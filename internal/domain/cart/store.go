package cart

import "context"

// Store 购物车存储接口
// 设计说明:
// 1. 购物车按会话ID隔离:一个游客会话对应一个购物车
// 2. Store实例在进程启动时创建一次,注入到所有消费方
//    (不做隐藏单例,测试时可以直接替换为内存实现)
// 3. Load对不存在的会话返回空购物车而非错误:
//    游客第一次打开页面时购物车天然为空,这不是异常
// 4. 面板开关(抽屉是否展开)是纯UI状态,与购物车内容互不约束,
//    但生命周期相同,所以放在同一个存储里
type Store interface {
	// Load 读取会话的购物车,不存在时返回空购物车
	Load(ctx context.Context, sessionID string) (*Cart, error)

	// Save 保存会话的购物车(整体覆盖)
	Save(ctx context.Context, sessionID string, c *Cart) error

	// Delete 删除会话的购物车及面板状态
	Delete(ctx context.Context, sessionID string) error

	// SetPanelOpen 设置购物车面板开关
	SetPanelOpen(ctx context.Context, sessionID string, open bool) error

	// IsPanelOpen 读取购物车面板开关,默认false
	IsPanelOpen(ctx context.Context, sessionID string) (bool, error)
}
