package playback

import "github.com/matzehuels/tideman/pkg/tideman"

// Player walks the frames of a result forwards and backwards.
// The zero value is not usable; create one with [NewPlayer].
type Player struct {
	res    *tideman.Result
	frames []Frame
	pos    int
}

// NewPlayer returns a player positioned on the first frame.
func NewPlayer(res *tideman.Result) *Player {
	return &Player{res: res, frames: Frames(res)}
}

// Result returns the result being played.
func (p *Player) Result() *tideman.Result { return p.res }

// Frame returns the current frame.
func (p *Player) Frame() Frame { return p.frames[p.pos] }

// Pos returns the 0-based index of the current frame.
func (p *Player) Pos() int { return p.pos }

// Len returns the total number of frames.
func (p *Player) Len() int { return len(p.frames) }

// Next advances one frame and reports whether it moved.
func (p *Player) Next() bool {
	if p.pos+1 >= len(p.frames) {
		return false
	}
	p.pos++
	return true
}

// Prev steps back one frame and reports whether it moved.
func (p *Player) Prev() bool {
	if p.pos == 0 {
		return false
	}
	p.pos--
	return true
}

// NextPhase advances to the first frame of the following phase.
func (p *Player) NextPhase() bool {
	cur := p.frames[p.pos].Phase
	for i := p.pos + 1; i < len(p.frames); i++ {
		if p.frames[i].Phase != cur {
			p.pos = i
			return true
		}
	}
	return false
}

// Reset moves back to the first frame.
func (p *Player) Reset() { p.pos = 0 }

// Done reports whether the current frame is the last one.
func (p *Player) Done() bool { return p.pos == len(p.frames)-1 }

// Locked returns the indices into Result.Edges locked so far.
func (p *Player) Locked() []int { return Locked(p.res, p.frames, p.pos) }
