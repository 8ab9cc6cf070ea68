package room

import (
	"github.com/palemoky/tarneeb/internal/protocol"
)

// publicInfo 返回玩家的公开信息（不含手牌内容），调用方必须持有 r.mu
func (r *Room) publicInfo(p *Player) protocol.PlayerInfo {
	return protocol.PlayerInfo{
		ID:        p.ID,
		Name:      p.Name,
		Team:      p.Team,
		Seat:      p.Seat,
		Connected: p.Connected,
		Avatar:    p.Avatar,
		HandCount: len(p.Hand),
	}
}

// buildView 以 viewer 视角构建状态快照：
//   - 只有 viewer 本人的手牌会下发，其他玩家只能看到张数
//   - 叫牌结束前不下发将牌花色，避免提前泄露庄家选择
//
// 调用方必须持有 r.mu
func (r *Room) buildView(viewer *Player) protocol.GameStatePayload {
	players := make([]protocol.PlayerInfo, len(r.players))
	for i, p := range r.players {
		info := r.publicInfo(p)
		if viewer != nil && p.ID == viewer.ID {
			info.Hand = protocol.CardsToInfos(p.Hand)
		}
		players[i] = info
	}

	trump := ""
	switch r.phase {
	case PhaseWaiting, PhaseDealerSelect, PhaseDealing1, PhaseBidding:
		// 将牌尚未确定或不可见
	default:
		trump = r.trumpSuit.Code()
	}

	trick := make([]protocol.TrickPlay, len(r.trick))
	for i, tp := range r.trick {
		trick[i] = protocol.TrickPlay{
			Seat: tp.Seat,
			Card: protocol.CardToInfo(tp.Card),
		}
	}

	tricksWon := map[int]int{1: r.tricksWon[1], 2: r.tricksWon[2]}

	mySeat := -1
	if viewer != nil {
		mySeat = viewer.Seat
	}

	return protocol.GameStatePayload{
		RoomCode:           r.Code,
		Phase:              r.phase.String(),
		Players:            players,
		DealerIndex:        r.dealerIndex,
		CurrentTurnIndex:   r.currentTurnIndex,
		CurrentBidderIndex: r.currentBidderIndex,
		HighestBid:         protocol.BidInfo{Amount: r.highestBid.Amount, Seat: r.highestBid.Seat},
		TrumpSuit:          trump,
		Trick:              trick,
		TricksWon:          tricksWon,
		MySeat:             mySeat,
		LeadSuit:           r.leadSuit.Code(),
		Outcome:            r.outcome,
		RunnerScore:        r.runnerScore,
		RunnerTeam:         r.runnerTeam,
	}
}

// broadcastState 给每个在线玩家下发按其视角裁剪的状态快照，调用方必须持有 r.mu
func (r *Room) broadcastState() {
	for _, p := range r.players {
		if !p.Connected {
			continue
		}
		msg, err := protocol.NewMessage(protocol.MsgGameState, r.buildView(p))
		if err != nil {
			continue
		}
		p.Client.SendMessage(msg)
	}
}

// PlayerInfo 返回指定玩家的公开信息；玩家不在房间时返回零值
func (r *Room) PlayerInfo(playerID string) protocol.PlayerInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.playerByID(playerID); p != nil {
		return r.publicInfo(p)
	}
	return protocol.PlayerInfo{}
}

// ViewFor 构建指定玩家视角的状态快照（给重连和测试用）
func (r *Room) ViewFor(playerID string) protocol.GameStatePayload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buildView(r.playerByID(playerID))
}
