package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Media    MediaConfig    `mapstructure:"media"`
	Log      LogConfig      `mapstructure:"log"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Mode    string `mapstructure:"mode"`
	Port    int    `mapstructure:"port"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
}

// DSN 返回PostgreSQL连接字符串
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// Addr 返回Redis地址
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	// PublicURL 对外访问前缀，为空时由 endpoint 推导
	PublicURL string `mapstructure:"public_url"`
}

// BaseURL 返回对象公开访问的根地址（不含 bucket）
func (m *MinIOConfig) BaseURL() string {
	if m.PublicURL != "" {
		return strings.TrimRight(m.PublicURL, "/")
	}
	scheme := "http"
	if m.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, m.Endpoint)
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	Brokers []string          `mapstructure:"brokers"`
	Topics  map[string]string `mapstructure:"topics"`
}

// Topic 按逻辑名获取 topic，未配置时返回逻辑名本身
func (k *KafkaConfig) Topic(name string) string {
	if t, ok := k.Topics[name]; ok && t != "" {
		return t
	}
	return name
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// ExpireDuration 返回过期时间
func (j *JWTConfig) ExpireDuration() time.Duration {
	return time.Duration(j.ExpireHours) * time.Hour
}

// MediaConfig 媒体上传配置
type MediaConfig struct {
	DefaultProfilePic string `mapstructure:"default_profile_pic"`
	MaxVideoMB        int64  `mapstructure:"max_video_mb"`
	MaxImageMB        int64  `mapstructure:"max_image_mb"`
}

// MaxVideoBytes 视频大小上限（字节）
func (m *MediaConfig) MaxVideoBytes() int64 {
	return m.MaxVideoMB * 1024 * 1024
}

// MaxImageBytes 图片大小上限（字节）
func (m *MediaConfig) MaxImageBytes() int64 {
	return m.MaxImageMB * 1024 * 1024
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

const (
	envPrefix         = "VIDSHARE"
	defaultConfigPath = "configs/config.yaml"
)

// Path 配置文件路径，VIDSHARE_CONFIG 优先
func Path() string {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return p
	}
	return defaultConfigPath
}

// Load 加载配置文件，环境变量 VIDSHARE_<SECTION>_<KEY> 可覆盖文件中的值
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret must not be empty")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "vidshare")
	v.SetDefault("app.mode", "debug")
	v.SetDefault("app.port", 3001)
	v.SetDefault("jwt.expire_hours", 10)
	v.SetDefault("minio.bucket", "media")
	v.SetDefault("kafka.topics.blob_cleanup", "blob_cleanup")
	v.SetDefault("media.default_profile_pic", "https://res.cloudinary.com/dzrl3jo6x/image/upload/profile_dxzkob")
	v.SetDefault("media.max_video_mb", 500)
	v.SetDefault("media.max_image_mb", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
}
