package room

// Phase 房间的生命周期阶段
type Phase int

const (
	PhaseWaiting      Phase = iota // 等待玩家凑齐
	PhaseDealerSelect              // 随机选庄展示中
	PhaseDealing1                  // 第一次发牌（每人 5 张）
	PhaseBidding                   // 叫牌中
	PhaseTrumpSelect               // 叫牌获胜者选将牌
	PhaseDealing2                  // 第二次发牌（每人补到 13 张）
	PhasePlaying                   // 出牌对局中
	PhaseGameOver                  // 本轮结算
)

// phaseNames 阶段的线路名称（与客户端约定一致）
var phaseNames = map[Phase]string{
	PhaseWaiting:      "WAITING",
	PhaseDealerSelect: "DEALER_SELECT",
	PhaseDealing1:     "DEALING_1",
	PhaseBidding:      "BIDDING",
	PhaseTrumpSelect:  "TRUMP_SELECT",
	PhaseDealing2:     "DEALING_2",
	PhasePlaying:      "PLAYING",
	PhaseGameOver:     "GAME_OVER",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "UNKNOWN"
}
