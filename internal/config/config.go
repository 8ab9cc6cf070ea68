package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Game     GameConfig     `yaml:"game"`
	Security SecurityConfig `yaml:"security"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
// 各阶段的停顿时长（毫秒），用于给客户端留出展示动画的时间
type GameConfig struct {
	DealerRevealDelay int `yaml:"dealer_reveal_delay"` // 宣布选庄到亮出庄家
	DealerDealDelay   int `yaml:"dealer_deal_delay"`   // 亮出庄家到第一次发牌
	BiddingDelay      int `yaml:"bidding_delay"`       // 第一次发牌到开始叫牌
	SecondDealDelay   int `yaml:"second_deal_delay"`   // 选定将牌到第二次发牌
	TrickPause        int `yaml:"trick_pause"`         // 第四张牌落下到定墩
	PostTrickPause    int `yaml:"post_trick_pause"`    // 定墩到下一墩开始

	RoomTimeout int `yaml:"room_timeout"` // 房间等待超时（分钟）
}

// RoomTimeoutDuration 返回房间等待超时时长
func (c *GameConfig) RoomTimeoutDuration() time.Duration {
	return time.Duration(c.RoomTimeout) * time.Minute
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins []string           `yaml:"allowed_origins"`
	RateLimit      RateLimitConfig    `yaml:"rate_limit"`
	MessageLimit   MessageLimitConfig `yaml:"message_limit"`
}

// RateLimitConfig 连接级速率限制
type RateLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
	MaxPerMinute int `yaml:"max_per_minute"`
	BanDuration  int `yaml:"ban_duration"` // 封禁时长（秒）
}

// BanDurationTime 返回封禁时长
func (c *RateLimitConfig) BanDurationTime() time.Duration {
	return time.Duration(c.BanDuration) * time.Second
}

// MessageLimitConfig 消息级速率限制
type MessageLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
}

// Load 加载配置文件
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
	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults 为未设置的字段填充默认值
func (cfg *Config) applyDefaults() {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 1781
	}
	if cfg.Server.MaxConnections == 0 {
		cfg.Server.MaxConnections = 10000
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Game.DealerRevealDelay == 0 {
		cfg.Game.DealerRevealDelay = 1000
	}
	if cfg.Game.DealerDealDelay == 0 {
		cfg.Game.DealerDealDelay = 4000
	}
	if cfg.Game.BiddingDelay == 0 {
		cfg.Game.BiddingDelay = 1500
	}
	if cfg.Game.SecondDealDelay == 0 {
		cfg.Game.SecondDealDelay = 1500
	}
	if cfg.Game.TrickPause == 0 {
		cfg.Game.TrickPause = 2000
	}
	if cfg.Game.PostTrickPause == 0 {
		cfg.Game.PostTrickPause = 500
	}
	if cfg.Game.RoomTimeout == 0 {
		cfg.Game.RoomTimeout = 10
	}
	if cfg.Security.RateLimit.MaxPerSecond == 0 {
		cfg.Security.RateLimit.MaxPerSecond = 10
	}
	if cfg.Security.RateLimit.MaxPerMinute == 0 {
		cfg.Security.RateLimit.MaxPerMinute = 120
	}
	if cfg.Security.RateLimit.BanDuration == 0 {
		cfg.Security.RateLimit.BanDuration = 60
	}
	if cfg.Security.MessageLimit.MaxPerSecond == 0 {
		cfg.Security.MessageLimit.MaxPerSecond = 20
	}
}
