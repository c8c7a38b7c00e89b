package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config 汇总运行服务所需的全部配置。
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Session    SessionConfig    `mapstructure:"session"`
	Mail       MailConfig       `mapstructure:"mail"`
	Log        LogConfig        `mapstructure:"log"`
	Upload     UploadConfig     `mapstructure:"upload"`
	Pagination PaginationConfig `mapstructure:"pagination"`
	Bootstrap  BootstrapConfig  `mapstructure:"bootstrap"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	BaseURL    string `mapstructure:"base_url"`
	GinMode    string `mapstructure:"gin_mode"`
}

// DatabaseConfig SQLite 数据库配置
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig 侧边栏缓存使用的 Redis 配置；Addr 为空时禁用缓存
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SessionConfig 会话配置
type SessionConfig struct {
	Secret string `mapstructure:"secret"`
	Name   string `mapstructure:"name"`
}

// MailConfig SMTP 邮件配置；Host 为空时邮件只写日志不真正发送
type MailConfig struct {
	SMTPHost    string `mapstructure:"smtp_host"`
	SMTPPort    int    `mapstructure:"smtp_port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	From        string `mapstructure:"from"`
	TokenLength int    `mapstructure:"token_length"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// UploadConfig 头像等上传文件的存放配置
type UploadConfig struct {
	Dir     string `mapstructure:"dir"`
	URLPath string `mapstructure:"url_path"`
}

// PaginationConfig 各列表页的每页条数
type PaginationConfig struct {
	CoursesPerPage       int `mapstructure:"courses_per_page"`
	OrganizationsPerPage int `mapstructure:"organizations_per_page"`
	TeachersPerPage      int `mapstructure:"teachers_per_page"`
}

// BootstrapConfig 首次启动时自动创建的管理账号；留空则跳过
type BootstrapConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Load 从配置文件与环境变量加载配置。
// 优先级：环境变量 > 配置文件 > 默认值。path 为空时只用默认值和环境变量。
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.base_url", "http://127.0.0.1:8080")
	v.SetDefault("server.gin_mode", "release")

	v.SetDefault("db.path", "lighten.db")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("session.secret", "lighten-dev-secret")
	v.SetDefault("session.name", "lighten_session")

	v.SetDefault("mail.smtp_host", "")
	v.SetDefault("mail.smtp_port", 465)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "Lighten <noreply@lighten.local>")
	v.SetDefault("mail.token_length", 16)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("upload.dir", "web/static/uploads")
	v.SetDefault("upload.url_path", "/static/uploads")

	v.SetDefault("pagination.courses_per_page", 6)
	v.SetDefault("pagination.organizations_per_page", 5)
	v.SetDefault("pagination.teachers_per_page", 10)

	v.SetDefault("bootstrap.username", "")
	v.SetDefault("bootstrap.password", "")

	v.SetEnvPrefix("LIGHTEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
