package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fernandezlibros/ebookstore/internal/domain/order"
	apperrors "github.com/fernandezlibros/ebookstore/pkg/errors"
)

// orderRepository 订单仓储实现(MySQL)
// 教学要点:
// 1. Order和OrderItem是聚合关系,必须一起保存
// 2. 查询时使用Preload预加载明细,避免N+1问题
// 3. 事务通过context传递
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单
// 教学要点:
// 1. GORM会自动保存关联的Items(通过foreignKey)
// 2. 需要事务时通过getDB从context获取事务DB
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	// 1. 领域实体 → GORM模型
	model := toOrderModel(o)

	// 2. 插入数据库(包含订单明细)
	db := r.getDB(ctx)
	if err := db.Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建订单失败")
	}

	// 3. 回填自增ID
	o.ID = model.ID
	for i := range o.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.ID
	}

	return nil
}

// FindByID 根据ID查找订单
// 教学要点:使用Preload预加载Items,避免N+1查询
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	db := r.getDB(ctx)

	// Preload("Items")会执行:
	// 1. SELECT * FROM orders WHERE id = ?
	// 2. SELECT * FROM order_items WHERE order_id IN (?)
	err := db.Preload("Items").First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}

	return toOrderEntity(&model), nil
}

// FindByOrderNo 根据订单号查找订单
func (r *orderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	var model OrderModel
	db := r.getDB(ctx)
	err := db.Preload("Items").Where("order_no = ?", orderNo).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}

	return toOrderEntity(&model), nil
}

// Update 更新订单
// 教学要点:状态流转和交付信息会变,金额与明细价格快照不变
func (r *orderRepository) Update(ctx context.Context, o *order.Order) error {
	db := r.getDB(ctx)

	// 更新状态、支付时间
	result := db.Model(&OrderModel{}).Where("id = ?", o.ID).Updates(map[string]interface{}{
		"status":     int(o.Status),
		"paid_at":    o.PaidAt,
		"updated_at": o.UpdatedAt,
	})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新订单失败")
	}

	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}

	// 明细的下载链接在交付时写入
	for i := range o.Items {
		if o.Items[i].DownloadURL == "" {
			continue
		}
		err := db.Model(&OrderItemModel{}).
			Where("id = ?", o.Items[i].ID).
			Update("download_url", o.Items[i].DownloadURL).Error
		if err != nil {
			return apperrors.Wrap(err, "更新下载链接失败")
		}
	}

	return nil
}

// ListBySession 查询某个会话的订单列表
func (r *orderRepository) ListBySession(ctx context.Context, sessionID string, page, pageSize int) ([]*order.Order, int64, error) {
	var models []OrderModel
	var total int64

	db := r.getDB(ctx)
	query := db.Model(&OrderModel{}).Where("session_id = ?", sessionID)

	// 查询总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单总数失败")
	}

	// 分页查询(包含明细)
	offset := (page - 1) * pageSize
	err := query.Preload("Items").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&models).Error

	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单列表失败")
	}

	// 转换为领域实体
	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}

	return orders, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toOrderModel 领域实体 → GORM模型
func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemModel{
			ID:          item.ID,
			OrderID:     item.OrderID,
			BookID:      item.BookID,
			Title:       item.Title,
			Quantity:    item.Quantity,
			Price:       item.Price,
			DownloadURL: item.DownloadURL,
		}
	}

	return &OrderModel{
		ID:        o.ID,
		OrderNo:   o.OrderNo,
		SessionID: o.SessionID,
		Email:     o.Customer.Email,
		FirstName: o.Customer.FirstName,
		LastName:  o.Customer.LastName,
		Country:   o.Customer.Country,
		Subtotal:  o.Subtotal,
		Tax:       o.Tax,
		Total:     o.Total,
		Status:    int(o.Status),
		Items:     items,
		PaidAt:    o.PaidAt,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// toOrderEntity GORM模型 → 领域实体
func toOrderEntity(model *OrderModel) *order.Order {
	items := make([]order.OrderItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = order.OrderItem{
			ID:          item.ID,
			OrderID:     item.OrderID,
			BookID:      item.BookID,
			Title:       item.Title,
			Quantity:    item.Quantity,
			Price:       item.Price,
			DownloadURL: item.DownloadURL,
		}
	}

	return &order.Order{
		ID:        model.ID,
		OrderNo:   model.OrderNo,
		SessionID: model.SessionID,
		Customer: order.Customer{
			Email:     model.Email,
			FirstName: model.FirstName,
			LastName:  model.LastName,
			Country:   model.Country,
		},
		Subtotal:  model.Subtotal,
		Tax:       model.Tax,
		Total:     model.Total,
		Status:    order.OrderStatus(model.Status),
		Items:     items,
		PaidAt:    model.PaidAt,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
// 教学要点:事务传递机制
func (r *orderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
