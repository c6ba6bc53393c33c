package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fernandezlibros/ebookstore/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构并灌入内置书目
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	// 学习要点：合理的连接池配置对性能至关重要
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	// 7. 灌入内置书目(空库时)
	if err := seedBooks(db); err != nil {
		return nil, fmt.Errorf("初始化书目失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 学习要点：
// 1. AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 2. 生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
func autoMigrate(db *gorm.DB) error {
	// 定义需要迁移的模型
	// 注意：这里需要使用GORM的模型定义（带tag），不是domain层的实体
	return db.AutoMigrate(
		&BookModel{},
		&OrderModel{},
		&OrderItemModel{},
	)
}

// seedBooks 空库时灌入店内书目
// 本店只售玛丽亚·费尔南德斯的电子书,书目在部署时固定
func seedBooks(db *gorm.DB) error {
	var count int64
	if err := db.Model(&BookModel{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	books := []BookModel{
		{
			Title:       "Hábitos Atómicos para Desarrolladores",
			Author:      "María Fernández",
			Price:       1999,
			OrigPrice:   2499,
			Rating:      4.8,
			ReviewCount: 1284,
			Cover:       "/covers/habitos-atomicos.jpg",
			Description: "Pequeños cambios diarios que transforman tu carrera como desarrollador.",
			Category:    "Desarrollo Personal",
			Pages:       320,
			Bestseller:  true,
		},
		{
			Title:       "El Arte de Enfocarse",
			Author:      "María Fernández",
			Price:       1699,
			OrigPrice:   1699,
			Rating:      4.6,
			ReviewCount: 847,
			Cover:       "/covers/arte-enfocarse.jpg",
			Description: "Técnicas probadas para recuperar tu atención en un mundo lleno de distracciones.",
			Category:    "Productividad",
			Pages:       256,
			Bestseller:  false,
		},
		{
			Title:       "Mentalidad de Crecimiento",
			Author:      "María Fernández",
			Price:       2299,
			OrigPrice:   2799,
			Rating:      4.9,
			ReviewCount: 2156,
			Cover:       "/covers/mentalidad-crecimiento.jpg",
			Description: "Cómo convertir cada fracaso en el cimiento de tu próximo éxito.",
			Category:    "Crecimiento Personal",
			Pages:       288,
			Bestseller:  true,
		},
		{
			Title:       "Liderazgo Sin Título",
			Author:      "María Fernández",
			Price:       2499,
			OrigPrice:   2499,
			Rating:      4.7,
			ReviewCount: 932,
			Cover:       "/covers/liderazgo-sin-titulo.jpg",
			Description: "Influir y liderar desde cualquier posición, sin esperar el ascenso.",
			Category:    "Liderazgo",
			Pages:       304,
			Bestseller:  false,
		},
	}

	if err := db.Create(&books).Error; err != nil {
		return err
	}

	log.Printf("✓ 初始化书目完成(%d本)", len(books))
	return nil
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. 电子书没有库存概念,售卖即交付下载链接
// 3. Category/Price/Rating有索引支撑列表页的筛选与排序
type BookModel struct {
	ID          uint           `gorm:"primaryKey"`
	Title       string         `gorm:"index:idx_search;size:200;not null;comment:书名"` // 搜索索引
	Author      string         `gorm:"index:idx_search;size:100;not null;comment:作者"` // 搜索索引
	Price       int64          `gorm:"index:idx_list;not null;comment:现价(分)"`         // 排序索引
	OrigPrice   int64          `gorm:"column:original_price;not null;comment:原价(分)"`
	Rating      float64        `gorm:"index:idx_list;default:0;comment:平均评分(0-5)"`
	ReviewCount int            `gorm:"default:0;comment:评论数"`
	Cover       string         `gorm:"size:500;comment:封面图片URL"`
	Description string         `gorm:"type:text;comment:图书简介"`
	Category    string         `gorm:"index;size:50;not null;comment:分类"`
	Pages       int            `gorm:"default:0;comment:页数"`
	Bestseller  bool           `gorm:"index;default:false;comment:是否畅销书"`
	CreatedAt   time.Time      `gorm:"index:idx_list;comment:创建时间"` // 排序索引
	UpdatedAt   time.Time      `gorm:"comment:更新时间"`
	DeletedAt   gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// OrderModel GORM订单模型
// 教学要点:
// 1. 与OrderItemModel是一对多关系
// 2. OrderNo有唯一索引(业务主键)
// 3. 游客下单,订单归属SessionID而不是用户ID
// 4. 金额三件套(小计/税/总计)全部落库,便于对账
type OrderModel struct {
	ID        uint             `gorm:"primaryKey"`
	OrderNo   string           `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	SessionID string           `gorm:"index;size:64;not null;comment:游客会话ID"`
	Email     string           `gorm:"size:100;not null;comment:收件邮箱"`
	FirstName string           `gorm:"size:50;comment:名"`
	LastName  string           `gorm:"size:50;comment:姓"`
	Country   string           `gorm:"size:50;comment:国家"`
	Subtotal  int64            `gorm:"not null;comment:商品小计(分)"`
	Tax       int64            `gorm:"not null;comment:税额(分)"`
	Total     int64            `gorm:"not null;comment:订单总金额(分)"`
	Status    int              `gorm:"index;type:tinyint;default:1;comment:订单状态(1待支付2已支付3已交付4失败)"`
	Items     []OrderItemModel `gorm:"foreignKey:OrderID"` // 一对多关联
	PaidAt    *time.Time       `gorm:"comment:支付时间"`
	CreatedAt time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt time.Time        `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型
// 教学要点:
// 1. 记录下单时的价格快照(Price字段)
// 2. 交付后写入DownloadURL,买家凭链接下载电子书
type OrderItemModel struct {
	ID          uint   `gorm:"primaryKey"`
	OrderID     uint   `gorm:"index;not null;comment:订单ID"`
	BookID      uint   `gorm:"index;not null;comment:图书ID"`
	Title       string `gorm:"size:200;not null;comment:书名快照"`
	Quantity    int    `gorm:"not null;comment:购买数量"`
	Price       int64  `gorm:"not null;comment:下单时单价(分)"`
	DownloadURL string `gorm:"size:500;comment:下载链接(交付后写入)"`
}

// TableName 指定表名
func (OrderItemModel) TableName() string {
	return "order_items"
}
