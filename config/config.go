// Package config 提供应用程序配置管理
// 基于viper加载config.yaml配置文件，并支持FILESHARE_前缀的环境变量覆盖
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用程序总配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // HTTP服务器配置
	Database DatabaseConfig `mapstructure:"database"` // 数据库配置
	Upload   UploadConfig   `mapstructure:"upload"`   // 上传策略配置
	Storage  StorageConfig  `mapstructure:"storage"`  // Blob存储配置
	Session  SessionConfig  `mapstructure:"session"`  // 会话配置
	Log      LogConfig      `mapstructure:"log"`      // 日志配置
}

// ServerConfig HTTP服务器配置
type ServerConfig struct {
	Port         int    `mapstructure:"port"`          // HTTP监听端口
	HTTPSPort    int    `mapstructure:"https_port"`    // HTTPS监听端口
	EnableHTTPS  bool   `mapstructure:"enable_https"`  // 是否启用HTTPS
	EnableHTTP2  bool   `mapstructure:"enable_http2"`  // 是否启用HTTP/2（仅HTTPS下生效）
	TLSCertFile  string `mapstructure:"tls_cert_file"` // TLS证书文件路径
	TLSKeyFile   string `mapstructure:"tls_key_file"`  // TLS私钥文件路径
	ReadTimeout  int    `mapstructure:"read_timeout"`  // 读超时（秒）
	WriteTimeout int    `mapstructure:"write_timeout"` // 写超时（秒）
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`            // 数据库驱动（当前支持sqlite）
	DSN             string `mapstructure:"dsn"`               // 数据源名称
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	MaxOpenConns    int    `mapstructure:"max_open_conns"`    // 最大打开连接数
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 连接最大生命周期（秒）
}

// UploadConfig 上传策略配置
// MaxFileSize是唯一权威的大小上限：校验器在上传前检查申报大小，
// 上传服务在落库前对实际写入字节数做二次检查
type UploadConfig struct {
	MaxFileSize       int64    `mapstructure:"max_file_size"`      // 单文件最大字节数
	AllowedExtensions []string `mapstructure:"allowed_extensions"` // 允许的文件扩展名（小写，不带点）
}

// StorageConfig Blob存储配置
// Provider取值: local、aliyun、tencent、qiniu
type StorageConfig struct {
	Provider  string `mapstructure:"provider"`   // 存储提供商
	LocalPath string `mapstructure:"local_path"` // 本地存储根目录（provider=local时使用）
	Bucket    string `mapstructure:"bucket"`     // 存储桶名称
	Region    string `mapstructure:"region"`     // 存储区域
	Endpoint  string `mapstructure:"endpoint"`   // 自定义端点（可选）
	AccessKey string `mapstructure:"access_key"` // 访问密钥ID
	SecretKey string `mapstructure:"secret_key"` // 访问密钥Secret
}

// SessionConfig 会话配置
type SessionConfig struct {
	Key string `mapstructure:"key"` // 会话加密密钥（base64编码的32字节，为空时自动生成）
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`     // 日志级别 (debug, info, warn, error)
	Format   string `mapstructure:"format"`    // 日志格式 (json, text)
	Output   string `mapstructure:"output"`    // 输出方式 (console, file, both)
	FilePath string `mapstructure:"file_path"` // 日志文件路径
}

// Load 加载配置
// 按顺序查找config.yaml（工作目录、./config目录），环境变量FILESHARE_*优先级最高
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("FILESHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// 配置文件缺失时仅依赖默认值和环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// 服务器默认值
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.https_port", 8443)
	v.SetDefault("server.enable_https", false)
	v.SetDefault("server.enable_http2", true)
	v.SetDefault("server.read_timeout", 60)
	v.SetDefault("server.write_timeout", 60)

	// 数据库默认值
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/fileshare.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 3600)

	// 上传策略默认值：10MiB上限与固定扩展名白名单
	v.SetDefault("upload.max_file_size", 10*1024*1024)
	v.SetDefault("upload.allowed_extensions", []string{
		"pdf", "doc", "docx", "xls", "xlsx",
		"jpg", "jpeg", "png", "gif",
		"txt", "csv", "zip",
	})

	// 存储默认值
	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.local_path", "data/blobs")

	// 会话默认值
	v.SetDefault("session.key", "")

	// 日志默认值
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "both")
	v.SetDefault("log.file_path", "logs/app.log")
}
