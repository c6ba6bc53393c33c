// Package checkout 结算用例
//
// 整个项目最核心的编排:购物车 → 订单 → 支付 → 交付 → 事件。
// 教学要点:
// 1. 金额以服务端购物车为准,前端只传联系信息,防止改价
// 2. 支付网关调用包在熔断器里,网关抖动时快速失败
// 3. 三个写操作(建单/扣款/交付)用Saga串起来,失败逆序补偿
// 4. 结算成功后发布order.paid事件,邮件通知等旁路逻辑异步消费
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/fernandezlibros/ebookstore/internal/domain/cart"
	"github.com/fernandezlibros/ebookstore/internal/domain/order"
	"github.com/fernandezlibros/ebookstore/internal/domain/pricing"
	"github.com/fernandezlibros/ebookstore/internal/infrastructure/payment"
	"github.com/fernandezlibros/ebookstore/pkg/circuitbreaker"
	"github.com/fernandezlibros/ebookstore/pkg/metrics"
	"github.com/fernandezlibros/ebookstore/pkg/saga"
)

// EventPublisher 事件发布接口(pkg/mq.Publisher实现)
// 定义为接口便于测试替换,MQ未部署时可以传nil
type EventPublisher interface {
	Publish(routingKey string, message interface{}) error
}

// Transactor 事务边界(mysql.TxManager实现)
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CheckoutUseCase 结算用例
type CheckoutUseCase struct {
	cartStore cart.Store
	orderRepo order.Repository
	gateway   payment.Gateway
	txManager Transactor // 可为nil(内存仓储的测试场景)
	paymentCB *circuitbreaker.CircuitBreaker
	publisher EventPublisher // 可为nil(MQ关闭时)
}

// NewCheckoutUseCase 创建结算用例
func NewCheckoutUseCase(
	cartStore cart.Store,
	orderRepo order.Repository,
	gateway payment.Gateway,
	txManager Transactor,
	publisher EventPublisher,
) *CheckoutUseCase {
	// 支付网关熔断器:连续5次失败打开,30秒后半开探测
	cb := circuitbreaker.NewCircuitBreaker("payment-gateway", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		if metrics.CircuitBreakerState != nil {
			metrics.SetGaugeVec(metrics.CircuitBreakerState,
				map[string]string{"name": name}, float64(to))
		}
	})

	return &CheckoutUseCase{
		cartStore: cartStore,
		orderRepo: orderRepo,
		gateway:   gateway,
		txManager: txManager,
		paymentCB: cb,
		publisher: publisher,
	}
}

// CheckoutRequest 结算请求DTO
// 金额不在请求里:以服务端购物车为准
type CheckoutRequest struct {
	SessionID string
	Email     string
	FirstName string
	LastName  string
	Country   string
}

// CheckoutItemView 结算结果明细
type CheckoutItemView struct {
	BookID      uint   `json:"book_id"`
	Title       string `json:"title"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
	DownloadURL string `json:"download_url"`
}

// CheckoutResponse 结算响应DTO
type CheckoutResponse struct {
	OrderNo     string             `json:"order_no"`
	Status      string             `json:"status"`
	Subtotal    int64              `json:"subtotal"`
	Tax         int64              `json:"tax"`
	Total       int64              `json:"total"`
	SubtotalUSD string             `json:"subtotal_usd"`
	TaxUSD      string             `json:"tax_usd"`
	TotalUSD    string             `json:"total_usd"`
	Items       []CheckoutItemView `json:"items"`
	PaidAt      string             `json:"paid_at"`
}

// OrderPaidEvent 结算成功事件(发布到ebookstore.events交换机)
type OrderPaidEvent struct {
	OrderNo string `json:"order_no"`
	Email   string `json:"email"`
	Total   int64  `json:"total"`
	PaidAt  string `json:"paid_at"`
}

// Execute 执行结算
//
// 流程:
// 1. 读购物车,空车直接拒绝
// 2. 按统一口径计算小计/税费/总计,创建待支付订单
// 3. Saga:建单 → 支付 → 交付,任一步失败逆序补偿
// 4. 成功后清空购物车、发布order.paid事件
func (uc *CheckoutUseCase) Execute(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	start := time.Now()
	if metrics.CheckoutsInProgress != nil {
		metrics.IncGauge(metrics.CheckoutsInProgress)
		defer metrics.DecGauge(metrics.CheckoutsInProgress)
	}

	resp, err := uc.execute(ctx, req)

	if metrics.CheckoutsCompletedTotal != nil {
		if err != nil {
			metrics.IncCounter(metrics.CheckoutsFailedTotal)
		} else {
			metrics.IncCounter(metrics.CheckoutsCompletedTotal)
			metrics.ObserveHistogram(metrics.CheckoutDuration, time.Since(start).Seconds())
		}
	}

	return resp, err
}

func (uc *CheckoutUseCase) execute(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	// ========================================
	// 步骤1:读购物车
	// ========================================
	c, err := uc.cartStore.Load(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, order.ErrEmptyCart
	}

	// ========================================
	// 步骤2:计算金额并创建订单实体
	// ========================================
	// 教学要点:使用购物车里锁定的价格快照,不回表查现价
	lines := c.Items()
	items := make([]order.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = order.OrderItem{
			BookID:   line.ID,
			Title:    line.Title,
			Quantity: line.Quantity,
			Price:    line.Price,
		}
	}

	summary := pricing.Summarize(c.Subtotal())
	ord, err := order.NewOrder(
		order.GenerateOrderNo(),
		req.SessionID,
		order.Customer{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Country:   req.Country,
		},
		items,
		summary.Subtotal,
		summary.Tax,
		summary.Total,
	)
	if err != nil {
		return nil, err
	}

	// ========================================
	// 步骤3:Saga编排 建单 → 支付 → 交付
	// ========================================
	var intentID string

	s := saga.NewSaga(30 * time.Second)

	s.AddStep("创建订单",
		func(sctx context.Context) error {
			return uc.orderRepo.Create(sctx, ord)
		},
		func(sctx context.Context) error {
			// 补偿:订单标记为失败(幂等:已是失败态时跳过)
			if ord.Status == order.OrderStatusFailed {
				return nil
			}
			if err := ord.Fail(); err != nil {
				return nil
			}
			return uc.orderRepo.Update(sctx, ord)
		},
	)

	s.AddStep("确认支付",
		func(sctx context.Context) error {
			return uc.confirmPayment(sctx, ord.Total, &intentID)
		},
		func(sctx context.Context) error {
			// 补偿:退款(网关侧幂等)
			if intentID == "" {
				return nil
			}
			return uc.gateway.Refund(sctx, intentID)
		},
	)

	s.AddStep("交付订单",
		func(sctx context.Context) error {
			if err := ord.Pay(); err != nil {
				return err
			}
			if err := ord.Deliver(uc.buildDownloadLinks(ord)); err != nil {
				return err
			}
			// 状态与下载链接跨两张表,放在同一事务里写
			return uc.inTx(sctx, func(txCtx context.Context) error {
				return uc.orderRepo.Update(txCtx, ord)
			})
		},
		nil, // 最后一步失败由前两步补偿兜底,自身无需补偿
	)

	if err := s.Execute(ctx); err != nil {
		return nil, err
	}

	// ========================================
	// 步骤4:清空购物车(会话保留,面板开关不动)
	// ========================================
	// 教学要点:
	// 1. 只清明细:面板开关是纯UI状态,与购物车内容互不约束,
	//    结算成功不应该替访客把抽屉关上
	// 2. 清车失败不回滚订单——钱已扣、书已交付,
	//    残留的购物车只是体验问题,记日志即可
	c.Clear()
	if err := uc.cartStore.Save(ctx, req.SessionID, c); err != nil {
		fmt.Printf("清空购物车失败(订单%s): %v\n", ord.OrderNo, err)
	}

	// ========================================
	// 步骤5:发布order.paid事件(旁路,失败不影响结算结果)
	// ========================================
	uc.publishPaidEvent(ord)

	return toCheckoutResponse(ord), nil
}

// inTx 有事务管理器时在事务内执行,否则直接执行
func (uc *CheckoutUseCase) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if uc.txManager == nil {
		return fn(ctx)
	}
	return uc.txManager.Transaction(ctx, fn)
}

// confirmPayment 调用支付网关(熔断器保护)
func (uc *CheckoutUseCase) confirmPayment(ctx context.Context, amount int64, intentID *string) error {
	err := uc.paymentCB.Execute(func() error {
		id, err := uc.gateway.CreateIntent(ctx, amount)
		if err != nil {
			return err
		}
		*intentID = id
		return uc.gateway.Confirm(ctx, id)
	})

	if metrics.PaymentRequestsTotal != nil {
		result := "success"
		switch {
		case err == circuitbreaker.ErrOpenState:
			result = "rejected"
		case err != nil:
			result = "failure"
		}
		metrics.IncCounterVec(metrics.PaymentRequestsTotal, map[string]string{"result": result})
	}

	if err == circuitbreaker.ErrOpenState {
		return order.ErrPaymentFailed
	}
	return err
}

// buildDownloadLinks 为订单每条明细生成下载链接
// 链接按订单号隔离,同一本书在不同订单里的链接互不相同
func (uc *CheckoutUseCase) buildDownloadLinks(ord *order.Order) []string {
	links := make([]string, len(ord.Items))
	for i, item := range ord.Items {
		links[i] = fmt.Sprintf("/downloads/%s/%d.epub", ord.OrderNo, item.BookID)
	}
	return links
}

// publishPaidEvent 发布结算成功事件
func (uc *CheckoutUseCase) publishPaidEvent(ord *order.Order) {
	if uc.publisher == nil {
		return
	}

	event := OrderPaidEvent{
		OrderNo: ord.OrderNo,
		Email:   ord.Customer.Email,
		Total:   ord.Total,
	}
	if ord.PaidAt != nil {
		event.PaidAt = ord.PaidAt.Format(time.RFC3339)
	}

	if err := uc.publisher.Publish("order.paid", event); err != nil {
		// 事件丢失只影响通知邮件,不影响订单本身
		fmt.Printf("发布order.paid事件失败(订单%s): %v\n", ord.OrderNo, err)
	}
}

// toCheckoutResponse 领域实体 → 响应DTO
func toCheckoutResponse(ord *order.Order) *CheckoutResponse {
	items := make([]CheckoutItemView, len(ord.Items))
	for i, item := range ord.Items {
		items[i] = CheckoutItemView{
			BookID:      item.BookID,
			Title:       item.Title,
			Quantity:    item.Quantity,
			Price:       item.Price,
			DownloadURL: item.DownloadURL,
		}
	}

	resp := &CheckoutResponse{
		OrderNo:     ord.OrderNo,
		Status:      ord.Status.Code(),
		Subtotal:    ord.Subtotal,
		Tax:         ord.Tax,
		Total:       ord.Total,
		SubtotalUSD: pricing.FormatUSD(ord.Subtotal),
		TaxUSD:      pricing.FormatUSD(ord.Tax),
		TotalUSD:    pricing.FormatUSD(ord.Total),
		Items:       items,
	}
	if ord.PaidAt != nil {
		resp.PaidAt = ord.PaidAt.Format("2006-01-02 15:04:05")
	}
	return resp
}
