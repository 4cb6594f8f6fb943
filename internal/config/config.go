package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Storage StorageConfig `mapstructure:"storage"`
	Session SessionConfig `mapstructure:"session"`
	Backup  BackupConfig  `mapstructure:"backup"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type StorageConfig struct {
	// UploadDir 正式上传目录；文章封面、缩略图和恢复的图片都放在这里。
	UploadDir string `mapstructure:"upload_dir"`
	// TempDir 暂存目录的根；为空时使用系统临时目录。
	TempDir string `mapstructure:"temp_dir"`
}

type SessionConfig struct {
	Secret string `mapstructure:"secret"`
}

type BackupConfig struct {
	// Dir 定时备份归档的落盘目录。
	Dir string `mapstructure:"dir"`
	// Cron 定时备份的 cron 表达式；为空时不启用定时备份。
	Cron string `mapstructure:"cron"`
	// Keep 保留的归档份数，超出的按时间从旧到新删除。
	Keep int `mapstructure:"keep"`
}

// LoadConfig 从 config.yaml 加载配置并填充到 Cfg，文件缺失时使用默认值。
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")

	viper.SetDefault("server.addr", ":37371")
	viper.SetDefault("db.path", "inkwell.db")
	viper.SetDefault("storage.upload_dir", "static/uploads")
	viper.SetDefault("storage.temp_dir", "")
	viper.SetDefault("session.secret", "secret-key-should-be-changed")
	viper.SetDefault("backup.dir", "backups")
	viper.SetDefault("backup.cron", "")
	viper.SetDefault("backup.keep", 5)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 没有配置文件时按默认值运行
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("解析配置失败: %w", err)
	}

	Cfg = &cfg
	return nil
}
