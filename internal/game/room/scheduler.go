package room

import (
	"time"

	"github.com/palemoky/tarneeb/internal/config"
)

// Scheduler 把延时任务注入房间
// 生产环境用 time.AfterFunc，测试中用手动触发的实现，保证阶段切换可复现
type Scheduler interface {
	// After 在 d 之后执行 fn，返回取消函数
	After(d time.Duration, fn func()) (cancel func())
}

// timerScheduler 基于 time.AfterFunc 的生产实现
type timerScheduler struct{}

// NewTimerScheduler 创建生产环境调度器
func NewTimerScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Delays 各阶段之间的停顿时长
type Delays struct {
	DealerReveal time.Duration // 宣布选庄到亮出庄家
	DealerDeal   time.Duration // 亮出庄家到第一次发牌
	Bidding      time.Duration // 第一次发牌到开始叫牌
	SecondDeal   time.Duration // 选定将牌到第二次发牌
	TrickPause   time.Duration // 第四张牌落下到定墩
	PostTrick    time.Duration // 定墩到下一墩广播
}

// DefaultDelays 返回默认停顿（与客户端动画节奏一致）
func DefaultDelays() Delays {
	return Delays{
		DealerReveal: time.Second,
		DealerDeal:   4 * time.Second,
		Bidding:      1500 * time.Millisecond,
		SecondDeal:   1500 * time.Millisecond,
		TrickPause:   2 * time.Second,
		PostTrick:    500 * time.Millisecond,
	}
}

// DelaysFromConfig 从配置构造停顿时长
func DelaysFromConfig(g *config.GameConfig) Delays {
	return Delays{
		DealerReveal: time.Duration(g.DealerRevealDelay) * time.Millisecond,
		DealerDeal:   time.Duration(g.DealerDealDelay) * time.Millisecond,
		Bidding:      time.Duration(g.BiddingDelay) * time.Millisecond,
		SecondDeal:   time.Duration(g.SecondDealDelay) * time.Millisecond,
		TrickPause:   time.Duration(g.TrickPause) * time.Millisecond,
		PostTrick:    time.Duration(g.PostTrickPause) * time.Millisecond,
	}
}
