package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appcart "github.com/fernandezlibros/ebookstore/internal/application/cart"
	"github.com/fernandezlibros/ebookstore/internal/application/catalog"
	"github.com/fernandezlibros/ebookstore/internal/application/checkout"
	"github.com/fernandezlibros/ebookstore/internal/application/content"
	"github.com/fernandezlibros/ebookstore/internal/domain/book"
	"github.com/fernandezlibros/ebookstore/internal/infrastructure/config"
	"github.com/fernandezlibros/ebookstore/internal/infrastructure/payment"
	"github.com/fernandezlibros/ebookstore/internal/infrastructure/persistence/mysql"
	"github.com/fernandezlibros/ebookstore/internal/infrastructure/persistence/redis"
	"github.com/fernandezlibros/ebookstore/internal/interface/http/handler"
	"github.com/fernandezlibros/ebookstore/internal/interface/http/middleware"
	"github.com/fernandezlibros/ebookstore/pkg/metrics"
	"github.com/fernandezlibros/ebookstore/pkg/mq"
	"github.com/fernandezlibros/ebookstore/pkg/response"
	"github.com/fernandezlibros/ebookstore/pkg/token"
	"github.com/fernandezlibros/ebookstore/pkg/tracing"
)

// main 主程序入口
// 说明：手动依赖注入(wire.go提供Wire版本,运行wire gen生成)
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 初始化Metrics
	metrics.InitMetrics()

	// 3. 初始化Tracing(可选)
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("ebookstore-api", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化Tracing失败: %v", err)
		}
		defer shutdown(context.Background())
		fmt.Println("✓ Tracing已启用")
	}

	// 4. 初始化数据库连接(含表迁移与书目初始化)
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 5. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 6. 初始化MQ发布者(可选)
	var publisher checkout.EventPublisher
	if cfg.MQ.Enabled {
		p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			log.Fatalf("初始化MQ失败: %v", err)
		}
		defer p.Close()
		publisher = p
		fmt.Println("✓ MQ已启用")
	}

	// 7. 依赖注入（手动组装）
	// 学习要点：依赖注入链
	// Repository ← Service ← UseCase ← Handler

	// 基础设施层
	bookRepo := mysql.NewBookRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	txManager := mysql.NewTxManager(db)
	cartStore := redis.NewCartStore(redisClient, cfg.Session.Expire)
	gateway := payment.NewSimulatedGateway(cfg.Payment)
	tokenManager := token.NewManager(cfg.Session.Secret, cfg.Session.Expire)

	// 领域层
	bookService := book.NewService(bookRepo)

	// 应用层
	listBooksUseCase := catalog.NewListBooksUseCase(bookService)
	getBookUseCase := catalog.NewGetBookUseCase(bookService)
	bestsellersUseCase := catalog.NewBestsellersUseCase(bookService)
	categoriesUseCase := catalog.NewCategoriesUseCase(bookService)
	cartUseCase := appcart.NewCartUseCase(cartStore, bookService)
	checkoutUseCase := checkout.NewCheckoutUseCase(cartStore, orderRepo, gateway, txManager, publisher)
	getOrderUseCase := checkout.NewGetOrderUseCase(orderRepo)
	listOrdersUseCase := checkout.NewListOrdersUseCase(orderRepo)
	contentUseCase := content.NewContentUseCase()

	// 接口层
	bookHandler := handler.NewBookHandler(listBooksUseCase, getBookUseCase, bestsellersUseCase, categoriesUseCase)
	cartHandler := handler.NewCartHandler(cartUseCase)
	checkoutHandler := handler.NewCheckoutHandler(checkoutUseCase, getOrderUseCase, listOrdersUseCase)
	contentHandler := handler.NewContentHandler(contentUseCase)
	sessionMiddleware := middleware.NewSessionMiddleware(tokenManager, cfg.Session.Cookie)

	// 8. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	// 9. 注册路由
	registerRoutes(r, bookHandler, cartHandler, checkoutHandler, contentHandler, sessionMiddleware)

	// 10. 启动服务(支持优雅关停)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		fmt.Printf("\n🚀 服务启动成功！\n")
		fmt.Printf("   访问地址: http://localhost%s\n", addr)
		fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
		fmt.Printf("   书目列表: GET  http://localhost%s/api/v1/books\n", addr)
		fmt.Printf("   购物车:   GET  http://localhost%s/api/v1/cart\n", addr)
		fmt.Printf("   结算:     POST http://localhost%s/api/v1/checkout\n", addr)
		fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", addr)
		fmt.Printf("\n按Ctrl+C停止服务\n\n")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// 优雅关停:等待在途请求完成(最多10秒)
	fmt.Println("\n正在关停服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("关停服务失败: %v", err)
	}
	fmt.Println("✓ 服务已关停")
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	bookHandler *handler.BookHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	contentHandler *handler.ContentHandler,
	sessionMiddleware *middleware.SessionMiddleware,
) {
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
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 书目模块(公开接口,不需要会话)
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

		// 购物车模块(需要会话,中间件自动签发)
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
}
