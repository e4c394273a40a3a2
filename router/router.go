package router

import (
	"time"

	"navybaby/api"
	"navybaby/config"
	_ "navybaby/docs"
	"navybaby/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter khai báo toàn bộ route của hệ thống
func SetupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	r.Use(CORSMiddleware())

	// Tài liệu Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Kiểm tra sức khỏe
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	authHandler := api.NewAuthHandler()
	customerHandler := api.NewCustomerHandler()
	supplierHandler := api.NewSupplierHandler()
	categoryHandler := api.NewCategoryHandler()
	productHandler := api.NewProductHandler()
	orderHandler := api.NewOrderHandler()
	financeHandler := api.NewFinanceHandler()
	walletHandler := api.NewWalletHandler()
	reportHandler := api.NewReportHandler()
	exportHandler := api.NewExportHandler()

	v1 := r.Group("/api/v1")
	{
		// Nhóm xác thực, không cần đăng nhập, có giới hạn tần suất
		loginLimit := middleware.LoginRateLimit(10, time.Minute)
		v1.POST("/dang-ky", loginLimit, authHandler.Register)
		v1.POST("/dang-nhap", loginLimit, authHandler.Login)
		v1.POST("/quen-mat-khau", loginLimit, authHandler.ForgotPassword)
		v1.POST("/dat-lai-mat-khau", loginLimit, authHandler.ResetPassword)

		// Route cần đăng nhập nhưng chưa cần phê duyệt
		authed := v1.Group("")
		authed.Use(middleware.JWTAuth())
		{
			authed.GET("/tai-khoan", authHandler.Profile)
			authed.POST("/tai-khoan/doi-mat-khau", authHandler.ChangePassword)
		}

		// Route nghiệp vụ, yêu cầu tài khoản đã được phê duyệt
		approved := v1.Group("")
		approved.Use(middleware.JWTAuth(), middleware.ApprovalRequired())
		{
			customers := approved.Group("/khach-hang")
			{
				customers.POST("", customerHandler.Create)
				customers.GET("", customerHandler.List)
				customers.GET("/:id", customerHandler.Get)
				customers.PUT("/:id", customerHandler.Update)
				customers.DELETE("/:id", customerHandler.Delete)
				customers.GET("/:id/bao-cao", customerHandler.Report)
				customers.GET("/:id/bill", customerHandler.Bill)
				customers.POST("/:id/xac-nhan-thanh-toan", customerHandler.ConfirmPayment)
			}

			suppliers := approved.Group("/nha-cung-cap")
			{
				suppliers.POST("", supplierHandler.Create)
				suppliers.GET("", supplierHandler.List)
				suppliers.GET("/:id", supplierHandler.Get)
				suppliers.PUT("/:id", supplierHandler.Update)
				suppliers.DELETE("/:id", supplierHandler.Delete)
			}

			categories := approved.Group("/danh-muc")
			{
				categories.POST("", categoryHandler.Create)
				categories.GET("", categoryHandler.List)
				categories.GET("/:id", categoryHandler.Get)
				categories.PUT("/:id", categoryHandler.Update)
				categories.DELETE("/:id", categoryHandler.Delete)
			}

			products := approved.Group("/san-pham")
			{
				products.POST("", productHandler.Create)
				products.GET("", productHandler.List)
				products.GET("/:id", productHandler.Get)
				products.GET("/:id/chi-tiet", productHandler.Detail)
				products.PUT("/:id", productHandler.Update)
				products.DELETE("/:id", productHandler.Delete)
			}

			orders := approved.Group("/don-hang")
			{
				orders.POST("", orderHandler.Create)
				orders.GET("", orderHandler.List)
				orders.POST("/cap-nhat-trang-thai-nhieu", orderHandler.BulkUpdateStatus)
				orders.GET("/:id", orderHandler.Get)
				orders.PUT("/:id", orderHandler.Update)
				orders.DELETE("/:id", orderHandler.Delete)
				orders.POST("/:id/trang-thai", orderHandler.UpdateStatus)
			}

			finance := approved.Group("/tai-chinh")
			{
				finance.POST("/danh-muc", financeHandler.CreateCategory)
				finance.GET("/danh-muc", financeHandler.ListCategories)
				finance.PUT("/danh-muc/:id", financeHandler.UpdateCategory)
				finance.DELETE("/danh-muc/:id", financeHandler.DeleteCategory)

				finance.POST("/giao-dich", financeHandler.CreateTransaction)
				finance.GET("/giao-dich", financeHandler.ListTransactions)
				finance.GET("/giao-dich/:id", financeHandler.GetTransaction)
				finance.PUT("/giao-dich/:id", financeHandler.UpdateTransaction)
				finance.DELETE("/giao-dich/:id", financeHandler.DeleteTransaction)
			}

			wallets := approved.Group("/vi")
			{
				wallets.POST("", walletHandler.Create)
				wallets.GET("", walletHandler.List)
				wallets.GET("/:id", walletHandler.Get)
				wallets.PUT("/:id", walletHandler.Update)
				wallets.DELETE("/:id", walletHandler.Delete)

				wallets.GET("/:id/giao-dich", walletHandler.ListTransactions)
				wallets.POST("/:id/giao-dich", walletHandler.CreateTransaction)
				wallets.PUT("/:id/giao-dich/:txId", walletHandler.UpdateTransaction)
				wallets.DELETE("/:id/giao-dich/:txId", walletHandler.DeleteTransaction)
			}

			reports := approved.Group("/bao-cao")
			{
				reports.GET("/tong-quan", reportHandler.Overview)
				reports.GET("/dong-thoi-gian", reportHandler.Timeline)
				reports.GET("/don-hang", reportHandler.Orders)
			}

			export := approved.Group("/xuat")
			{
				export.GET("/don-hang/excel", exportHandler.ExportExcel)
				export.GET("/don-hang/csv", exportHandler.ExportCSV)
			}
		}

		// Nhóm quản trị, chỉ admin
		admin := v1.Group("/quan-tri")
		admin.Use(middleware.JWTAuth(), middleware.AdminRequired())
		{
			admin.GET("/tai-khoan", authHandler.ListUsers)
			admin.POST("/tai-khoan/:id/phe-duyet", authHandler.ApproveUser)
			admin.POST("/tai-khoan/:id/loai", authHandler.UpdateUserRole)
		}
	}

	return r
}

// CORSMiddleware middleware cho phép gọi API từ domain khác
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
