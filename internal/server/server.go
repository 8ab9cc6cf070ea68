package server

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/tarneeb/internal/config"
	"github.com/palemoky/tarneeb/internal/game/room"
	"github.com/palemoky/tarneeb/internal/server/handler"
	"github.com/palemoky/tarneeb/internal/server/session"
	"github.com/palemoky/tarneeb/internal/server/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 真正的来源校验在 handleWebSocket 里做，这里放行以便拿到请求
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	EnableCompression: false,
}

// Server WebSocket 服务器
type Server struct {
	config         *config.Config
	redis          *redis.Client
	redisStore     *storage.RedisStore
	leaderboard    *storage.LeaderboardManager
	roomManager    *room.RoomManager
	sessionManager *session.SessionManager
	clients        map[string]*Client
	clientsMu      sync.RWMutex
	handler        *handler.Handler

	// 安全组件
	rateLimiter    *RateLimiter
	originChecker  *OriginChecker
	messageLimiter *MessageRateLimiter

	// 连接控制
	maxConnections int
	semaphore      chan struct{} // 信号量控制并发连接数

	httpServer *http.Server
	cancelBg   context.CancelFunc
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) (*Server, error) {
	// 初始化 Redis 客户端
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 测试 Redis 连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}

	redisStore := storage.NewRedisStore(rdb)

	s := &Server{
		config:         cfg,
		redis:          rdb,
		redisStore:     redisStore,
		leaderboard:    storage.NewLeaderboardManager(rdb),
		clients:        make(map[string]*Client),
		sessionManager: session.NewSessionManager(redisStore),
		// 初始化安全组件
		rateLimiter: NewRateLimiter(
			cfg.Security.RateLimit.MaxPerSecond,
			cfg.Security.RateLimit.MaxPerMinute,
			cfg.Security.RateLimit.BanDurationTime(),
		),
		originChecker:  NewOriginChecker(cfg.Security.AllowedOrigins),
		messageLimiter: NewMessageRateLimiter(cfg.Security.MessageLimit.MaxPerSecond),
		// 初始化连接控制
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
	}

	// 初始化房间管理器
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	s.roomManager = room.NewRoomManager(
		room.NewTimerScheduler(),
		room.DelaysFromConfig(&cfg.Game),
		rng,
		s.leaderboard,
		cfg.Game.RoomTimeoutDuration(),
	)

	// 初始化消息处理器
	s.handler = handler.NewHandler(handler.Deps{
		Server:         s,
		RoomManager:    s.roomManager,
		Leaderboard:    s.leaderboard,
		SessionManager: s.sessionManager,
	})

	log.Printf("🔒 安全配置: 连接限制=%d/s, 消息限制=%d/s, 最大连接数=%d",
		cfg.Security.RateLimit.MaxPerSecond, cfg.Security.MessageLimit.MaxPerSecond, cfg.Server.MaxConnections)

	return s, nil
}

// Start 启动服务器（阻塞直到 ListenAndServe 返回）
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	bgCtx, cancel := context.WithCancel(context.Background())
	s.cancelBg = cancel
	s.roomManager.StartCleanupLoop(bgCtx)
	go s.monitorStats(bgCtx)

	log.Printf("🚀 服务器启动在 ws://%s/ws (CPU核心数: %d)", addr, runtime.NumCPU())
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown 优雅关闭：停止接收新连接并关闭现有客户端
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancelBg != nil {
		s.cancelBg()
	}

	s.clientsMu.Lock()
	for _, c := range s.clients {
		c.Close()
	}
	s.clientsMu.Unlock()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	return s.redis.Close()
}

// monitorStats 周期性输出在线统计
func (s *Server) monitorStats(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Printf("📊 在线玩家: %d, 活跃房间: %d", s.GetOnlineCount(), s.roomManager.RoomCount())
		}
	}
}
