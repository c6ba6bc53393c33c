package integration

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 教学说明：购物车与结算模块集成测试
//
// 本项目的核心链路：加购 → 购物车 → 结算 → 订单交付
// 关键技术点：
// 1. 游客会话（Cookie自动签发，购物车按会话隔离）
// 2. 价格锁定（加购时的价格，不随书目现价变化）
// 3. 统一金额口径（小计 + 10%税 = 总计，购物车与订单一致）
// 4. Saga编排（建单 → 支付 → 交付，失败逆序补偿）
//
// 运行前提：服务已启动且payment.failure_rate配置为0

// TestCartFlow 测试购物车完整操作
func TestCartFlow(t *testing.T) {
	c := NewClient(t)
	bookID := FirstSeededBookID(t, c)

	t.Run("初始购物车为空", func(t *testing.T) {
		cart := c.GetCart(t)

		assert.Empty(t, cart.Items, "新会话的购物车应该为空")
		assert.Zero(t, cart.TotalItemCount, "总件数应该为0")
		assert.Zero(t, cart.Total, "总计应该为0")

		t.Logf("✓ 新会话购物车为空")
	})

	t.Run("加购与重复加购", func(t *testing.T) {
		// 第一次加购
		cart := c.AddToCart(t, bookID)
		require.Len(t, cart.Items, 1, "应该有1行明细")
		assert.Equal(t, 1, cart.Items[0].Quantity, "首次加购数量为1")
		price := cart.Items[0].Price

		// 重复加购同一本书：数量+1，不新增行
		cart = c.AddToCart(t, bookID)
		require.Len(t, cart.Items, 1, "重复加购不应该新增行")
		assert.Equal(t, 2, cart.Items[0].Quantity, "数量应该累加到2")
		assert.Equal(t, price, cart.Items[0].Price, "单价应该保持首次加购的价格")
		assert.Equal(t, price*2, cart.Items[0].LineTotal, "行小计 = 单价 × 数量")

		t.Logf("✓ 加购成功，单价%d分，数量2", price)
	})

	t.Run("金额三行口径", func(t *testing.T) {
		cart := c.GetCart(t)

		expectedTax := cart.Subtotal * 1000 / 10000
		assert.Equal(t, expectedTax, cart.Tax, "税费应该是小计的10%%（分值截断）")
		assert.Equal(t, cart.Subtotal+cart.Tax, cart.Total, "总计 = 小计 + 税费")

		t.Logf("✓ 小计%d + 税%d = 总计%d", cart.Subtotal, cart.Tax, cart.Total)
	})

	t.Run("调整数量", func(t *testing.T) {
		url := fmt.Sprintf("%s/cart/items/%d", BaseURL, bookID)
		resp := c.PutJSON(t, url, map[string]interface{}{"quantity": 5})
		require.Equal(t, 0, resp.Code, "调整数量失败: %s", resp.Message)

		var cart CartData
		err := json.Unmarshal(resp.Data, &cart)
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 5, cart.Items[0].Quantity, "数量应该更新为5")
		assert.Equal(t, 5, cart.TotalItemCount, "总件数应该是5")

		t.Logf("✓ 数量调整为5")
	})

	t.Run("数量调整为0等价移除", func(t *testing.T) {
		url := fmt.Sprintf("%s/cart/items/%d", BaseURL, bookID)
		resp := c.PutJSON(t, url, map[string]interface{}{"quantity": 0})
		require.Equal(t, 0, resp.Code, "调整数量失败: %s", resp.Message)

		var cart CartData
		err := json.Unmarshal(resp.Data, &cart)
		require.NoError(t, err)
		assert.Empty(t, cart.Items, "数量0应该移除该行")

		t.Logf("✓ 数量0正确移除明细")
	})

	t.Run("移除与清空", func(t *testing.T) {
		c.AddToCart(t, bookID)

		// 移除
		url := fmt.Sprintf("%s/cart/items/%d", BaseURL, bookID)
		resp := c.DeleteJSON(t, url)
		require.Equal(t, 0, resp.Code, "移除失败: %s", resp.Message)

		// 清空（空车清空也应成功，幂等）
		resp = c.DeleteJSON(t, BaseURL+"/cart")
		assert.Equal(t, 0, resp.Code, "清空失败: %s", resp.Message)

		cart := c.GetCart(t)
		assert.Empty(t, cart.Items, "清空后购物车为空")

		t.Logf("✓ 移除与清空正确")
	})

	t.Run("加购不存在的图书", func(t *testing.T) {
		resp := c.PostJSON(t, BaseURL+"/cart/items", map[string]interface{}{
			"book_id": 999999,
		})
		assert.NotEqual(t, 0, resp.Code, "不存在的图书应该加购失败")

		t.Logf("✓ 不存在的图书正确被拒绝: %s", resp.Message)
	})

	t.Run("迷你购物车面板开关", func(t *testing.T) {
		resp := c.PutJSON(t, BaseURL+"/cart/panel", map[string]interface{}{"open": true})
		require.Equal(t, 0, resp.Code, "设置面板失败: %s", resp.Message)

		cart := c.GetCart(t)
		assert.True(t, cart.PanelOpen, "面板应该是打开状态")

		resp = c.PutJSON(t, BaseURL+"/cart/panel", map[string]interface{}{"open": false})
		require.Equal(t, 0, resp.Code)

		cart = c.GetCart(t)
		assert.False(t, cart.PanelOpen, "面板应该是关闭状态")

		t.Logf("✓ 面板状态持久化正确")
	})
}

// TestCartSessionIsolation 测试会话隔离
//
// 教学说明：
// 两个Client各有独立的CookieJar，相当于两位访客。
// 一位访客的加购绝不能出现在另一位的购物车里。
func TestCartSessionIsolation(t *testing.T) {
	alice := NewClient(t)
	bob := NewClient(t)
	bookID := FirstSeededBookID(t, alice)

	alice.AddToCart(t, bookID)

	bobCart := bob.GetCart(t)
	assert.Empty(t, bobCart.Items, "另一个会话的购物车应该为空")

	aliceCart := alice.GetCart(t)
	assert.Len(t, aliceCart.Items, 1, "本会话的购物车应该保留明细")

	t.Log("✓ 会话隔离正确")
}

// TestCheckoutFlow 测试完整结算流程
//
// 教学说明：
// 这是一个端到端(E2E)测试，验证从加购到订单交付的完整业务流程
func TestCheckoutFlow(t *testing.T) {
	c := NewClient(t)
	bookID := FirstSeededBookID(t, c)

	t.Log("\n========================================")
	t.Log("完整结算流程测试")
	t.Log("========================================")

	// Step 1: 加购两本
	t.Log("\n➜ Step 1: 加购")
	c.AddToCart(t, bookID)
	cart := c.AddToCart(t, bookID)
	t.Logf("✓ 加购成功，小计%d分，总计%d分", cart.Subtotal, cart.Total)

	// Step 2: 提交结算
	t.Log("\n➜ Step 2: 提交结算")
	resp, ord := c.Checkout(t, "lector@example.com")
	require.Equal(t, 0, resp.Code, "结算失败: %s", resp.Message)
	require.NotNil(t, ord)

	assert.NotEmpty(t, ord.OrderNo, "订单号不应为空")
	assert.Equal(t, "delivered", ord.Status, "数字商品支付后立即交付")
	assert.Equal(t, cart.Subtotal, ord.Subtotal, "订单小计应该与购物车一致")
	assert.Equal(t, cart.Tax, ord.Tax, "订单税费应该与购物车一致")
	assert.Equal(t, cart.Total, ord.Total, "订单总计应该与购物车一致")
	assert.NotEmpty(t, ord.PaidAt, "应该记录支付时间")
	for _, item := range ord.Items {
		assert.NotEmpty(t, item.DownloadURL, "每条明细都应该有下载链接")
	}
	t.Logf("✓ 结算成功，订单号: %s，金额: %s", ord.OrderNo, ord.TotalUSD)

	// Step 3: 结算后购物车清空
	t.Log("\n➜ Step 3: 验证购物车清空")
	emptyCart := c.GetCart(t)
	assert.Empty(t, emptyCart.Items, "结算成功后购物车应该清空")
	t.Log("✓ 购物车已清空")

	// Step 4: 查询订单详情
	t.Log("\n➜ Step 4: 查询订单详情")
	detailResp := c.GetJSON(t, fmt.Sprintf("%s/orders/%s", BaseURL, ord.OrderNo))
	require.Equal(t, 0, detailResp.Code, "查询订单失败: %s", detailResp.Message)

	var detail OrderData
	err := json.Unmarshal(detailResp.Data, &detail)
	require.NoError(t, err)
	assert.Equal(t, ord.Total, detail.Total, "详情金额应该与结算响应一致")
	t.Log("✓ 订单详情查询成功")

	// Step 5: 订单出现在会话订单列表里
	t.Log("\n➜ Step 5: 查询订单列表")
	listResp := c.GetJSON(t, BaseURL+"/orders")
	require.Equal(t, 0, listResp.Code, "查询订单列表失败: %s", listResp.Message)

	var list OrderListData
	err = json.Unmarshal(listResp.Data, &list)
	require.NoError(t, err)

	found := false
	for _, o := range list.List {
		if o.OrderNo == ord.OrderNo {
			found = true
		}
	}
	assert.True(t, found, "订单应该出现在会话订单列表里")

	t.Log("\n========================================")
	t.Log("✅ 完整结算流程测试通过")
	t.Log("========================================")
}

// TestCheckoutValidation 测试结算校验
func TestCheckoutValidation(t *testing.T) {
	t.Run("空购物车不能结算", func(t *testing.T) {
		c := NewClient(t)

		resp, _ := c.Checkout(t, "lector@example.com")
		assert.NotEqual(t, 0, resp.Code, "空购物车应该拒绝结算")

		t.Logf("✓ 空购物车正确被拒绝: %s", resp.Message)
	})

	t.Run("缺少邮箱不能结算", func(t *testing.T) {
		c := NewClient(t)
		bookID := FirstSeededBookID(t, c)
		c.AddToCart(t, bookID)

		resp := c.PostJSON(t, BaseURL+"/checkout", map[string]interface{}{
			"first_name": "Carlos",
			"last_name":  "Ruiz",
		})
		assert.NotEqual(t, 0, resp.Code, "缺少邮箱应该拒绝结算")

		t.Logf("✓ 缺少邮箱正确被拒绝: %s", resp.Message)
	})

	t.Run("他人订单不可见", func(t *testing.T) {
		alice := NewClient(t)
		bookID := FirstSeededBookID(t, alice)
		alice.AddToCart(t, bookID)

		resp, ord := alice.Checkout(t, "alice@example.com")
		require.Equal(t, 0, resp.Code, "结算失败: %s", resp.Message)

		// 另一个会话拿着订单号查询，应该返回"订单不存在"
		bob := NewClient(t)
		bobResp := bob.GetJSON(t, fmt.Sprintf("%s/orders/%s", BaseURL, ord.OrderNo))
		assert.NotEqual(t, 0, bobResp.Code, "他人订单应该不可见")

		t.Logf("✓ 订单归属校验生效: %s", bobResp.Message)
	})
}

// TestCheckoutConcurrency 测试并发结算
//
// 教学说明：
// 多个独立会话同时结算，验证订单号不冲突、各自金额正确。
// 数字商品没有库存概念，所以全部应该成功。
func TestCheckoutConcurrency(t *testing.T) {
	bookID := FirstSeededBookID(t, NewClient(t))

	concurrency := 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		orderNos = make(map[string]bool)
	)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			c := NewClient(t)
			c.AddToCart(t, bookID)

			resp, ord := c.Checkout(t, fmt.Sprintf("buyer%d@example.com", idx))

			mu.Lock()
			defer mu.Unlock()
			if assert.Equal(t, 0, resp.Code, "结算应该成功: %s", resp.Message) {
				assert.False(t, orderNos[ord.OrderNo], "订单号不应该重复")
				orderNos[ord.OrderNo] = true
			}
		}(i)
	}

	wg.Wait()

	assert.Len(t, orderNos, concurrency, "每个会话都应该拿到独立订单")
	t.Logf("✓ %d个并发结算全部成功，订单号无冲突", len(orderNos))
}
