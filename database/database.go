package database

import (
	"fmt"
	"log"

	"navybaby/config"
	"navybaby/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init khởi tạo kết nối cơ sở dữ liệu
func Init(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("kết nối cơ sở dữ liệu thất bại: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// Thông số pool kết nối
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	// Tự động migrate các bảng
	if err := DB.AutoMigrate(
		&models.User{},
		&models.PasswordReset{},
		&models.Customer{},
		&models.Supplier{},
		&models.ProductCategory{},
		&models.Product{},
		&models.Color{},
		&models.Size{},
		&models.Order{},
		&models.FinanceCategory{},
		&models.FinanceTransaction{},
		&models.Wallet{},
		&models.WalletTransaction{},
	); err != nil {
		return err
	}

	seedDefaults(cfg)

	log.Println("Khởi tạo cơ sở dữ liệu thành công")
	return nil
}

// seedDefaults tạo sẵn dữ liệu nghiệp vụ khi bảng còn trống
func seedDefaults(cfg *config.Config) {
	// Các danh mục tài chính gắn nghiệp vụ (so khớp theo tên khi đối soát)
	defaultCategories := []models.FinanceCategory{
		{Name: models.CategoryOrderPayment, Type: models.FinanceTypeIncome, Description: "Khách hàng thanh toán tiền đơn hàng"},
		{Name: models.CategoryCustomerDeposit, Type: models.FinanceTypeIncome, Description: "Khách hàng đặt cọc trước tiền hàng"},
		{Name: models.CategoryDepositDeduction, Type: models.FinanceTypeExpense, Description: "Khấu trừ tiền đặt cọc vào bill"},
	}
	for _, cat := range defaultCategories {
		var count int64
		DB.Model(&models.FinanceCategory{}).
			Where("type = ? AND name = ?", cat.Type, cat.Name).
			Count(&count)
		if count == 0 {
			if err := DB.Create(&cat).Error; err != nil {
				log.Printf("Cảnh báo: không tạo được danh mục tài chính %q: %v", cat.Name, err)
			}
		}
	}

	// Ví vốn kinh doanh nhận giao dịch đồng bộ; chỉ tạo khi chưa cấu hình id cụ thể
	if cfg.Wallet.BusinessWalletID == 0 {
		var count int64
		DB.Model(&models.Wallet{}).
			Where("name = ? AND currency = ?", models.BusinessWalletName, models.CurrencyVND).
			Count(&count)
		if count == 0 {
			wallet := models.Wallet{
				Name:        models.BusinessWalletName,
				Currency:    models.CurrencyVND,
				Description: "Ví nhận giao dịch đồng bộ từ sổ thu chi",
			}
			if err := DB.Create(&wallet).Error; err != nil {
				log.Printf("Cảnh báo: không tạo được ví vốn kinh doanh: %v", err)
			}
		}
	}
}

// GetDB lấy kết nối cơ sở dữ liệu
func GetDB() *gorm.DB {
	return DB
}
