package main

import (
	"flag"
	"log"
	"strings"

	"navybaby/config"
	"navybaby/database"
	"navybaby/middleware"
	"navybaby/router"
)

// @title NavyBaby API
// @version 1.0
// @description API quản lý bán hàng: khách hàng, sản phẩm, đơn hàng, sổ thu chi và ví tiền tệ
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "đường dẫn file cấu hình ngoài (tùy chọn)")
	flag.StringVar(&configFile, "c", "", "đường dẫn file cấu hình ngoài (viết tắt)")
	flag.StringVar(&port, "port", "", "cổng lắng nghe, ví dụ: 8080 hoặc :8080")
	flag.StringVar(&port, "p", "", "cổng lắng nghe (viết tắt)")
	flag.BoolVar(&showVersion, "version", false, "hiển thị phiên bản")
	flag.BoolVar(&showVersion, "v", false, "hiển thị phiên bản (viết tắt)")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("NavyBaby v1.0.0")
		return
	}

	// Nạp cấu hình (mặc định nhúng sẵn + file ngoài ghi đè nếu có)
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("Nạp cấu hình thất bại: %v", err)
	}

	// Tham số dòng lệnh ghi đè cổng trong cấu hình
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("Cổng chỉ định từ dòng lệnh: %s", port)
	}

	config.PrintConfig()

	if err := database.Init(cfg); err != nil {
		log.Fatalf("Khởi tạo cơ sở dữ liệu thất bại: %v", err)
	}

	middleware.InitJWT(cfg)

	r := router.SetupRouter(cfg)

	log.Printf("==========================================")
	log.Printf("  🧸 NavyBaby đã khởi động")
	log.Printf("==========================================")
	log.Printf("  Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  API:      http://localhost%s/api/v1/", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("Khởi động máy chủ thất bại: %v", err)
	}
}
