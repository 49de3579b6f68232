package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 默认值
const (
	defaultBackend       = BackendSQLite
	defaultKey           = "session"
	defaultSQLiteFile    = "bridge.db"
	defaultRedisAddr     = "localhost:6379"
	defaultMaxAge        = 24 // 小时
	defaultSaveDebounce  = 2000
	defaultFlushInterval = 30
	defaultMode          = "chicago"
)

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config 计分器配置
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Session SessionConfig `yaml:"session"`
	Game    GameConfig    `yaml:"game"`
	UI      UIConfig      `yaml:"ui"`
}

// StorageConfig 会话存储配置
type StorageConfig struct {
	Backend  string         `yaml:"backend"` // sqlite | postgres | redis | memory
	Key      string         `yaml:"key"`     // 会话在存储中的键
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
}

// SQLiteConfig 本地 SQLite 文件
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig Postgres 连接
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SessionConfig 自动保存与过期
type SessionConfig struct {
	MaxAge        int `yaml:"max_age"`        // 会话有效期（小时）
	SaveDebounce  int `yaml:"save_debounce"`  // 保存防抖（毫秒）
	FlushInterval int `yaml:"flush_interval"` // 定期保存（秒）
}

// MaxAgeDuration 返回会话有效期
func (c *SessionConfig) MaxAgeDuration() time.Duration {
	return time.Duration(c.MaxAge) * time.Hour
}

// SaveDebounceDuration 返回保存防抖时长
func (c *SessionConfig) SaveDebounceDuration() time.Duration {
	return time.Duration(c.SaveDebounce) * time.Millisecond
}

// FlushIntervalDuration 返回定期保存间隔
func (c *SessionConfig) FlushIntervalDuration() time.Duration {
	return time.Duration(c.FlushInterval) * time.Second
}

// GameConfig 游戏配置
type GameConfig struct {
	DefaultMode string `yaml:"default_mode"`
}

// UIConfig 界面配置
type UIConfig struct {
	Mute bool `yaml:"mute"` // 关闭提示音
}

// Load 加载配置文件，之后应用默认值和环境变量
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	cfg.loadFromEnv()
	return &cfg, nil
}

// Default 返回默认配置（同样应用环境变量）
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.loadFromEnv()
	return cfg
}

// LoadDotEnv 读取工作目录下的 .env（不存在时忽略）
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// DataDir 返回数据目录 ~/.bridge-scorer
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bridge-scorer"
	}
	return filepath.Join(home, ".bridge-scorer")
}

func (c *Config) applyDefaults() {
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaultBackend
	}
	if c.Storage.Key == "" {
		c.Storage.Key = defaultKey
	}
	if c.Storage.SQLite.Path == "" {
		c.Storage.SQLite.Path = filepath.Join(DataDir(), defaultSQLiteFile)
	}
	if c.Storage.Redis.Addr == "" {
		c.Storage.Redis.Addr = defaultRedisAddr
	}
	if c.Session.MaxAge == 0 {
		c.Session.MaxAge = defaultMaxAge
	}
	if c.Session.SaveDebounce == 0 {
		c.Session.SaveDebounce = defaultSaveDebounce
	}
	if c.Session.FlushInterval == 0 {
		c.Session.FlushInterval = defaultFlushInterval
	}
	if c.Game.DefaultMode == "" {
		c.Game.DefaultMode = defaultMode
	}
}

// loadFromEnv 用 BRIDGE_* 环境变量覆盖配置
func (c *Config) loadFromEnv() {
	envString("BRIDGE_STORAGE_BACKEND", &c.Storage.Backend)
	envString("BRIDGE_STORAGE_KEY", &c.Storage.Key)
	envString("BRIDGE_SQLITE_PATH", &c.Storage.SQLite.Path)
	envString("BRIDGE_POSTGRES_DSN", &c.Storage.Postgres.DSN)
	envString("BRIDGE_REDIS_ADDR", &c.Storage.Redis.Addr)
	envString("BRIDGE_REDIS_PASSWORD", &c.Storage.Redis.Password)
	envInt("BRIDGE_REDIS_DB", &c.Storage.Redis.DB)
	envInt("BRIDGE_SESSION_MAX_AGE", &c.Session.MaxAge)
	envInt("BRIDGE_SAVE_DEBOUNCE", &c.Session.SaveDebounce)
	envInt("BRIDGE_FLUSH_INTERVAL", &c.Session.FlushInterval)
	envString("BRIDGE_DEFAULT_MODE", &c.Game.DefaultMode)
	if v := os.Getenv("BRIDGE_MUTE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.UI.Mute = b
		}
	}
	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
}

func envString(key string, dst *string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
