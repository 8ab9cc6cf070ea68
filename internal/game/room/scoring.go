package room

import (
	"context"
	"time"

	"github.com/palemoky/tarneeb/internal/logger"
	"github.com/palemoky/tarneeb/internal/protocol"
)

// endRound 结算本轮并进入 GAME_OVER 阶段
// 跑分规则：叫牌方是跑分队时，成功 +bid、失败 -2*bid；
// 叫牌方是庄家队时，成功 -bid、失败 +2*bid
// 调用方必须持有 r.mu
func (r *Room) endRound(winningTeam int) {
	bidTeam := TeamForSeat(r.highestBid.Seat)
	bidAmount := r.highestBid.Amount
	success := winningTeam == bidTeam

	if bidTeam == r.runnerTeam {
		if success {
			r.runnerScore += bidAmount
		} else {
			r.runnerScore -= 2 * bidAmount
		}
	} else {
		if success {
			r.runnerScore -= bidAmount
		} else {
			r.runnerScore += 2 * bidAmount
		}
	}

	r.outcome = &protocol.RoundOutcome{
		WinningTeam: winningTeam,
		BiddingTeam: bidTeam,
		BidAmount:   bidAmount,
		TricksWon:   r.tricksWon[bidTeam],
		Success:     success,
		RunnerScore: r.runnerScore,
		RunnerTeam:  r.runnerTeam,
	}

	r.phase = PhaseGameOver
	r.currentTurnIndex = -1
	r.broadcastState()
	r.recordRound(bidTeam, winningTeam)
}

// recordRound 异步写入每位玩家的本轮战绩，失败只记日志不影响游戏
// 调用方必须持有 r.mu
func (r *Room) recordRound(bidTeam, winningTeam int) {
	if r.recorder == nil {
		return
	}

	type entry struct {
		id, name       string
		wasBidder, won bool
	}
	entries := make([]entry, 0, len(r.players))
	for _, p := range r.players {
		entries = append(entries, entry{
			id:        p.ID,
			name:      p.Name,
			wasBidder: p.Team == bidTeam,
			won:       p.Team == winningTeam,
		})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		for _, e := range entries {
			if err := r.recorder.RecordRoundResult(ctx, e.id, e.name, e.wasBidder, e.won); err != nil {
				logger.LogError("记录战绩失败 player=%s: %v", e.id, err)
			}
		}
	}()
}

// HandleNextRound 在结算页发起下一轮
// 若跑分为负，庄家按座位顺延一位，攻守互换，分数取绝对值归到新的跑分队名下
func (r *Room) HandleNextRound(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseGameOver {
		return
	}
	if r.playerByID(playerID) == nil {
		return
	}

	r.lastActivity = time.Now()

	if r.runnerScore < 0 {
		r.dealerIndex = (r.dealerIndex + 1) % MaxPlayers
		r.dealerTeam = TeamForSeat(r.dealerIndex)
		r.runnerTeam = opposingTeam(r.dealerTeam)
		r.runnerScore = -r.runnerScore
	}

	r.startRound()
}

// HandleRestart 重开一局：清空跑分与庄家，重新走选庄流程
func (r *Room) HandleRestart(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseGameOver {
		return
	}
	if r.playerByID(playerID) == nil {
		return
	}

	r.lastActivity = time.Now()

	r.runnerScore = 0
	r.runnerTeam = -1
	r.dealerTeam = -1
	r.dealerIndex = -1
	r.outcome = nil
	r.bids = make(map[string]int)
	r.highestBid = Bid{Amount: bidFloor, Seat: -1}
	r.trick = nil
	r.tricksWon = map[int]int{1: 0, 2: 0}
	for _, p := range r.players {
		p.Hand = nil
	}

	r.phase = PhaseDealerSelect
	r.broadcastEvent(protocol.MustNewMessage(protocol.MsgGameStarting, struct{}{}))
	r.broadcastState()
	r.schedule(r.delays.DealerReveal, r.pickRandomDealer)
}
