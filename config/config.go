package config

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config cấu hình ứng dụng
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Email    EmailConfig    `mapstructure:"email"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
}

// ServerConfig cấu hình máy chủ
type ServerConfig struct {
	Port    string `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig cấu hình cơ sở dữ liệu
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
}

// JWTConfig cấu hình JWT
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// EmailConfig cấu hình gửi mail
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// WalletConfig cấu hình ví
type WalletConfig struct {
	// BusinessWalletID id ví "Vốn kinh doanh (VNĐ)" nhận giao dịch đồng bộ từ sổ thu chi.
	// Để 0 thì hệ thống tìm theo tên + loại tiền tệ như bản cũ.
	BusinessWalletID uint `mapstructure:"business_wallet_id"`
}

var (
	// GlobalConfig cấu hình toàn cục
	GlobalConfig *Config
)

// LoadConfig nạp cấu hình.
// Ưu tiên: file cấu hình ngoài > cấu hình mặc định nhúng sẵn.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. Nạp cấu hình mặc định nhúng trong binary
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("đọc cấu hình mặc định thất bại: %w", err)
	}

	// 2. Gộp file cấu hình ngoài nếu có
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("Cảnh báo: không đọc được file cấu hình %s: %v", configPath, err)
		} else {
			log.Printf("Đã gộp file cấu hình: %s", configPath)
		}
	} else {
		external := viper.New()
		external.SetConfigName("config")
		external.SetConfigType("yaml")
		external.AddConfigPath(".")
		external.AddConfigPath("./config")
		external.AddConfigPath("/etc/navybaby")
		external.AddConfigPath("$HOME/.navybaby")

		if err := external.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(external.AllSettings()); err != nil {
				log.Printf("Cảnh báo: gộp cấu hình ngoài thất bại: %v", err)
			} else {
				log.Printf("Đã gộp file cấu hình: %s", external.ConfigFileUsed())
			}
		}
	}

	// 3. Biến môi trường NAVYBABY_* ghi đè
	v.SetEnvPrefix("NAVYBABY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("phân tích cấu hình thất bại: %w", err)
	}

	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 24
	}
	cfg.JWT.ExpireTime = time.Duration(cfg.JWT.ExpireHours) * time.Hour

	GlobalConfig = &cfg
	return &cfg, nil
}

// GetConfig lấy cấu hình toàn cục
func GetConfig() *Config {
	if GlobalConfig == nil {
		panic("cấu hình chưa được khởi tạo, cần gọi LoadConfig trước")
	}
	return GlobalConfig
}

// PrintConfig in cấu hình hiện tại (giấu thông tin nhạy cảm)
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	log.Printf("Cấu hình hiện tại:")
	log.Printf("  Máy chủ: %s (chế độ: %s)", GlobalConfig.Server.Port, GlobalConfig.Server.Mode)
	log.Printf("  CSDL: %s@%s:%s/%s",
		GlobalConfig.Database.Username,
		GlobalConfig.Database.Host,
		GlobalConfig.Database.Port,
		GlobalConfig.Database.DBName)
	log.Printf("  Gửi mail: %v", GlobalConfig.Email.Enabled)
	log.Printf("  Ví vốn kinh doanh: id=%d", GlobalConfig.Wallet.BusinessWalletID)
}

// SafeErrorMessage ở chế độ debug trả kèm chi tiết lỗi,
// còn lại chỉ trả thông báo chung để tránh lộ thông tin nội bộ
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	// Chưa nạp cấu hình thì coi như môi trường phát triển
	if GlobalConfig == nil || GlobalConfig.Server.Mode == "debug" {
		return err.Error()
	}
	return fallback
}
