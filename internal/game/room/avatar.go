package room

import (
	"math/rand/v2"

	"github.com/palemoky/tarneeb/internal/protocol"
)

// 头像素材：底图动物 + 按位置分组的配饰
var (
	avatarBases = []string{"🐱", "🐶", "🐰", "🦊", "🐻", "🐼", "🐨", "🐯", "🦁", "🐸", "🐵", "🐷"}

	avatarAccessories = []struct {
		Emoji string
		Type  string
	}{
		{"🕶️", "eyes"},
		{"👓", "eyes"},
		{"🎩", "head"},
		{"👑", "head"},
		{"🎀", "ears"},
		{"🧢", "head"},
		{"🎧", "ears"},
		{"🧣", "neck"},
	}
)

// randomAvatar 生成装饰性头像，约三分之一概率不带配饰
func randomAvatar(rng *rand.Rand) protocol.AvatarInfo {
	avatar := protocol.AvatarInfo{
		Base: avatarBases[rng.IntN(len(avatarBases))],
	}
	if rng.IntN(3) > 0 {
		acc := avatarAccessories[rng.IntN(len(avatarAccessories))]
		avatar.Accessory = acc.Emoji
		avatar.Type = acc.Type
	}
	return avatar
}
