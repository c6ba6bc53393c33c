//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入（如Spring的@Autowired）不同，Wire在编译期生成代码
// 3. 优势：零运行时开销、类型安全、编译期检测循环依赖
//
// Wire工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 4: main.go调用wire_gen.go中的InitializeApp()
//
// 核心概念：
// - Provider: 提供依赖的构造函数（如NewBookRepository）
// - Injector: 声明最终要构造的目标类型（如*gin.Engine）
// - wire.Build(): 告诉Wire如何组装依赖链

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appcart "github.com/fernandezlibros/ebookstore/internal/application/cart"
	"github.com/fernandezlibros/ebookstore/internal/application/catalog"
	"github.com/fernandezlibros/ebookstore/internal/application/checkout"
	"github.com/fernandezlibros/ebookstore/internal/application/content"
	"github.com/fernandezlibros/ebookstore/internal/domain/book"
	"github.com/fernandezlibros/ebookstore/internal/domain/cart"
	"github.com/fernandezlibros/ebookstore/internal/domain/order"
	"github.com/fernandezlibros/ebookstore/internal/infrastructure/config"
	"github.com/fernandezlibros/ebookstore/internal/infrastructure/payment"
	"github.com/fernandezlibros/ebookstore/internal/infrastructure/persistence/mysql"
	"github.com/fernandezlibros/ebookstore/internal/infrastructure/persistence/redis"
	"github.com/fernandezlibros/ebookstore/internal/interface/http/handler"
	"github.com/fernandezlibros/ebookstore/internal/interface/http/middleware"
	"github.com/fernandezlibros/ebookstore/pkg/mq"
	"github.com/fernandezlibros/ebookstore/pkg/response"
	"github.com/fernandezlibros/ebookstore/pkg/token"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================
// 教学说明：
// ProviderSet 将相关的 Provider 分组，便于管理和复用
// 例如：基础设施层的所有Provider放在一起

// infrastructureSet 基础设施层依赖
// 包含：配置加载、数据库连接、Redis连接
var infrastructureSet = wire.NewSet(
	config.Load,     // 加载配置文件
	mysql.NewDB,     // 创建MySQL连接
	redis.NewClient, // 创建Redis连接
)

// repositorySet 仓储层依赖
// 包含：所有Repository与存储的构造函数
var repositorySet = wire.NewSet(
	mysql.NewBookRepository,  // 图书仓储
	mysql.NewOrderRepository, // 订单仓储
	mysql.NewTxManager,       // 事务管理器
	provideCartStore,         // 购物车存储(Redis)
	providePaymentGateway,    // 模拟支付网关
)

// domainSet 领域层依赖
// 包含：所有领域服务的构造函数
var domainSet = wire.NewSet(
	book.NewService, // 图书领域服务
)

// applicationSet 应用层依赖
// 包含：所有Use Case的构造函数
var applicationSet = wire.NewSet(
	catalog.NewListBooksUseCase,   // 书目列表用例
	catalog.NewGetBookUseCase,     // 图书详情用例
	catalog.NewBestsellersUseCase, // 畅销书用例
	catalog.NewCategoriesUseCase,  // 分类列表用例
	appcart.NewCartUseCase,        // 购物车用例
	provideCheckoutUseCase,        // 结算用例(需要组装MQ/事务)
	checkout.NewGetOrderUseCase,   // 订单详情用例
	checkout.NewListOrdersUseCase, // 订单列表用例
	content.NewContentUseCase,     // 静态内容用例
)

// middlewareSet 中间件依赖
// 包含：令牌管理器、会话中间件
var middlewareSet = wire.NewSet(
	provideTokenManager,      // 令牌管理器（需要从config提取参数）
	provideSessionMiddleware, // 会话中间件（需要Cookie名称）
)

// handlerSet HTTP处理器依赖
// 包含：所有Handler的构造函数
var handlerSet = wire.NewSet(
	handler.NewBookHandler,     // 书目处理器
	handler.NewCartHandler,     // 购物车处理器
	handler.NewCheckoutHandler, // 结算处理器
	handler.NewContentHandler,  // 内容处理器
)

// ========================================
// Custom Providers (自定义Provider)
// ========================================
// 教学说明：
// 有些依赖的构造函数参数不是直接的类型，需要从Config中提取
// 这时需要编写自定义Provider函数

// provideTokenManager 从配置创建会话令牌管理器
// 教学要点：config.Config 包含多个字段，但token.NewManager只需要会话相关的配置
// Wire无法自动知道如何从Config提取参数，所以需要手动编写Provider
func provideTokenManager(cfg *config.Config) *token.Manager {
	return token.NewManager(cfg.Session.Secret, cfg.Session.Expire)
}

// provideSessionMiddleware 创建会话中间件
func provideSessionMiddleware(tokenManager *token.Manager, cfg *config.Config) *middleware.SessionMiddleware {
	return middleware.NewSessionMiddleware(tokenManager, cfg.Session.Cookie)
}

// provideCartStore 创建Redis购物车存储
// 教学要点：TTL与会话有效期一致
func provideCartStore(client *goredis.Client, cfg *config.Config) cart.Store {
	return redis.NewCartStore(client, cfg.Session.Expire)
}

// providePaymentGateway 创建模拟支付网关
func providePaymentGateway(cfg *config.Config) payment.Gateway {
	return payment.NewSimulatedGateway(cfg.Payment)
}

// provideCheckoutUseCase 组装结算用例
// MQ是可选依赖:配置关闭时publisher为nil,结算链路自动跳过事件发布
func provideCheckoutUseCase(
	cfg *config.Config,
	cartStore cart.Store,
	orderRepo order.Repository,
	gateway payment.Gateway,
	txManager *mysql.TxManager,
) (*checkout.CheckoutUseCase, error) {
	var publisher checkout.EventPublisher
	if cfg.MQ.Enabled {
		p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			return nil, err
		}
		publisher = p
	}
	return checkout.NewCheckoutUseCase(cartStore, orderRepo, gateway, txManager, publisher), nil
}

// provideGinEngine 创建并配置Gin引擎
// 教学要点：
// 1. Gin引擎需要注册所有路由
// 2. 路由注册需要所有的Handler和Middleware
// 3. Wire会自动注入这些依赖
func provideGinEngine(
	cfg *config.Config,
	bookHandler *handler.BookHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	contentHandler *handler.ContentHandler,
	sessionMiddleware *middleware.SessionMiddleware,
) *gin.Engine {
	// 设置运行模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Metrics())

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档路由
	// 访问 http://localhost:8080/swagger/index.html 查看API文档
	// 生产环境建议禁用Swagger或添加访问控制
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 书目模块(公开接口)
		books := v1.Group("/books")
		{
			books.GET("", bookHandler.ListBooks)
			books.GET("/bestsellers", bookHandler.Bestsellers)
			books.GET("/categories", bookHandler.Categories)
			books.GET("/:id", bookHandler.GetBook)
		}

		// 内容模块(公开接口)
		contents := v1.Group("/content")
		{
			contents.GET("/author", contentHandler.GetAuthor)
			contents.GET("/testimonials", contentHandler.GetTestimonials)
			contents.GET("/stats", contentHandler.GetStats)
		}

		// 购物车模块(需要会话)
		carts := v1.Group("/cart")
		carts.Use(sessionMiddleware.EnsureSession())
		{
			carts.GET("", cartHandler.GetCart)
			carts.DELETE("", cartHandler.Clear)
			carts.POST("/items", cartHandler.AddItem)
			carts.PUT("/items/:id", cartHandler.UpdateItem)
			carts.DELETE("/items/:id", cartHandler.RemoveItem)
			carts.PUT("/panel", cartHandler.SetPanel)
		}

		// 结算与订单模块(需要会话)
		sessioned := v1.Group("")
		sessioned.Use(sessionMiddleware.EnsureSession())
		{
			sessioned.POST("/checkout", checkoutHandler.Checkout)
			sessioned.GET("/orders", checkoutHandler.ListOrders)
			sessioned.GET("/orders/:order_no", checkoutHandler.GetOrder)
		}
	}

	return r
}

// ========================================
// Wire Injector (依赖注入器)
// ========================================
// 教学说明：
// InitializeApp是Wire的入口函数（Injector）
//
// 依赖链示例：
// *gin.Engine 需要 → *handler.CartHandler
// *handler.CartHandler 需要 → *appcart.CartUseCase
// *appcart.CartUseCase 需要 → cart.Store 和 book.Service
// cart.Store 需要 → *goredis.Client
// *goredis.Client 需要 → *config.Config
//
// Wire会按正确的顺序调用所有构造函数

// InitializeApp 初始化整个应用
// 返回：配置好的Gin引擎
// 错误：如果任何依赖创建失败
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		// 基础设施层
		infrastructureSet,

		// 仓储层
		repositorySet,

		// 领域层
		domainSet,

		// 应用层
		applicationSet,

		// 中间件层
		middlewareSet,

		// 接口层
		handlerSet,

		// Gin引擎
		provideGinEngine,
	)

	// 返回值类型必须与wire.Build的最终产出一致
	// Wire会在wire_gen.go中生成实际的初始化代码
	// 这里的返回值是占位符，实际运行时会被wire_gen.go替代
	return nil, nil
}
