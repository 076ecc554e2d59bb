package ffmml

import (
	clone "github.com/huandu/go-clone/generic"
)

// MusicPlayer mixes one channelPlayer per declared channel into a single
// mono sample stream: equal-weight average, ending once every channel has
// reached EOS. Construct with NewMusicPlayer; Music may be shared by any
// number of independently-advancing MusicPlayer instances.
type MusicPlayer struct {
	names   []byte
	players map[byte]*channelPlayer
}

// NewMusicPlayer builds a player over music at the given sample rate. The
// channel command lists and macro table are deep-cloned so this player's
// traversal state can never alias another instance built from the same
// Music.
func NewMusicPlayer(music *Music, sampleRate int) *MusicPlayer {
	m := clone.Clone(music)

	names := m.ChannelNames()
	players := make(map[byte]*channelPlayer, len(names))
	for _, name := range names {
		players[name] = newChannelPlayer(m.Channels[name], m.Macros, sampleRate)
	}
	return &MusicPlayer{names: names, players: players}
}

// NextSample pulls one sample from every channel, sums, and divides by the
// channel count. A play error ends only the channel that raised it; its
// siblings keep contributing samples until they too reach EOS. NextSample
// returns false once every channel has ended, with or without an error.
func (mp *MusicPlayer) NextSample() (Sample, bool) {
	var sum Sample
	anyAlive := false
	for _, name := range mp.names {
		cp := mp.players[name]
		s, ok := cp.nextSample()
		if ok {
			anyAlive = true
		}
		sum += s
	}
	if !anyAlive {
		return SampleZero, false
	}
	return sum / Sample(len(mp.names)), true
}

// Err checks per-channel errors in channel-name order and returns the
// first one found, or nil if every channel ended cleanly (or is still
// running).
func (mp *MusicPlayer) Err() error {
	for _, name := range mp.names {
		if err := mp.players[name].Err(); err != nil {
			return err
		}
	}
	return nil
}
