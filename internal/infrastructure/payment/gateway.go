// Package payment 模拟支付网关
//
// 本店不接入真实支付渠道,网关行为完全由配置驱动:
//   - Delay: 模拟网关的网络往返耗时
//   - FailureRate: 按比例随机拒绝支付,用于演示失败路径
//   - Timeout: 单次调用的最长等待时间
//
// 教学要点:
// 1. 通过接口抽象网关,结算用例不感知"模拟"还是"真实"
// 2. 支付意图(Intent)两段式:先CreateIntent锁定金额,再Confirm扣款
// 3. 调用方用熔断器包住Confirm,网关自身不做重试
package payment

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/fernandezlibros/ebookstore/internal/infrastructure/config"
	apperrors "github.com/fernandezlibros/ebookstore/pkg/errors"
)

// Gateway 支付网关接口
type Gateway interface {
	// CreateIntent 创建支付意图,锁定金额,返回意图ID
	CreateIntent(ctx context.Context, amount int64) (string, error)

	// Confirm 确认扣款
	Confirm(ctx context.Context, intentID string) error

	// Refund 退款(Saga补偿用),对同一意图重复调用是幂等的
	Refund(ctx context.Context, intentID string) error
}

// intentState 支付意图状态
type intentState int

const (
	intentCreated intentState = iota
	intentConfirmed
	intentRefunded
)

type intent struct {
	amount int64
	state  intentState
}

// SimulatedGateway 模拟支付网关实现
type SimulatedGateway struct {
	delay       time.Duration
	failureRate float64
	timeout     time.Duration

	mu      sync.Mutex
	rand    *rand.Rand
	seq     int64
	intents map[string]*intent
}

// NewSimulatedGateway 根据配置创建模拟网关
func NewSimulatedGateway(cfg config.PaymentConfig) *SimulatedGateway {
	return &SimulatedGateway{
		delay:       cfg.Delay,
		failureRate: cfg.FailureRate,
		timeout:     cfg.Timeout,
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
		intents:     make(map[string]*intent),
	}
}

// simulateLatency 模拟网络往返,同时尊重超时和取消
func (g *SimulatedGateway) simulateLatency(ctx context.Context) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	if g.delay <= 0 {
		return ctx.Err()
	}

	select {
	case <-time.After(g.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CreateIntent 创建支付意图
func (g *SimulatedGateway) CreateIntent(ctx context.Context, amount int64) (string, error) {
	if amount <= 0 {
		return "", apperrors.ErrInvalidParams
	}

	if err := g.simulateLatency(ctx); err != nil {
		return "", apperrors.Wrap(err, "支付网关超时")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.seq++
	id := fmt.Sprintf("pi_%d_%06d", time.Now().Unix(), g.seq)
	g.intents[id] = &intent{amount: amount, state: intentCreated}
	return id, nil
}

// Confirm 确认扣款
// 按FailureRate随机拒绝,模拟余额不足/风控拦截等拒付场景
func (g *SimulatedGateway) Confirm(ctx context.Context, intentID string) error {
	if err := g.simulateLatency(ctx); err != nil {
		return apperrors.Wrap(err, "支付网关超时")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	it, ok := g.intents[intentID]
	if !ok {
		return apperrors.ErrPaymentFailed
	}
	if it.state == intentConfirmed {
		// 重复确认视为成功(幂等)
		return nil
	}

	if g.rand.Float64() < g.failureRate {
		return apperrors.ErrPaymentFailed
	}

	it.state = intentConfirmed
	return nil
}

// Refund 退款
// 对未确认或已退款的意图直接返回成功,补偿重试不会报错
func (g *SimulatedGateway) Refund(ctx context.Context, intentID string) error {
	if err := g.simulateLatency(ctx); err != nil {
		return apperrors.Wrap(err, "支付网关超时")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	it, ok := g.intents[intentID]
	if !ok {
		return nil
	}
	it.state = intentRefunded
	return nil
}
