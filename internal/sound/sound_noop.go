//go:build ci

package sound

// 事件音效名，与有声版本保持一致
const (
	SoundDeal  = "deal"
	SoundBid   = "bid"
	SoundPlay  = "play"
	SoundTrick = "trick"
	SoundWin   = "win"
	SoundLose  = "lose"
)

type SoundManager struct{}

func NewSoundManager() *SoundManager {
	return &SoundManager{}
}

func (sm *SoundManager) Init() error {
	return nil
}

func (sm *SoundManager) Play(name string) {
	// No-op
}

func (sm *SoundManager) Close() {
	// No-op
}
