package ui

import "github.com/palemoky/tarneeb/internal/protocol"

// truncateName 截断玩家名称
func truncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) > maxLen {
		return string(runes[:maxLen-1]) + "…"
	}
	return name
}

// renderAvatar 底图动物加配饰，配饰可为空
func renderAvatar(a protocol.AvatarInfo) string {
	if a.Base == "" {
		return "👤"
	}
	return a.Base + a.Accessory
}

func winRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total) * 100
}
