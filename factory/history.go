package factory

// Frame is one visualization snapshot of the floor: who works where, what
// every machine is doing and how far production has come. Frames are only
// collected while recording is on, typically for a single episode that
// gets rendered to a GIF afterwards.
type Frame struct {
	Time  float64
	Shift int
	// operator per machine, -1 for unstaffed
	Assignments []int
	// skill of the working operator per machine, -1 for unstaffed
	Skills   []float64
	Statuses []Status
	Produced int
}

// SetRecording toggles history capture. Turning it on clears any frames
// from a previous episode.
func (f *Environment) SetRecording(on bool) {
	f.recording = on
	if on {
		f.frames = nil
	}
}

// History returns the captured frames of the current episode.
func (f *Environment) History() []Frame {
	out := make([]Frame, len(f.frames))
	copy(out, f.frames)
	return out
}

func (f *Environment) snapshot() {
	frame := Frame{
		Time:        f.clock,
		Shift:       f.Shift(),
		Assignments: make([]int, len(f.machines)),
		Skills:      make([]float64, len(f.machines)),
		Statuses:    make([]Status, len(f.machines)),
		Produced:    f.produced,
	}
	for i := range f.machines {
		m := f.machines[i]
		frame.Statuses[i] = m.status
		frame.Assignments[i] = m.operator
		if m.operator >= 0 {
			frame.Skills[i] = f.cfg.Skill(m.operator, m.typeIndex)
		} else {
			frame.Skills[i] = -1
		}
	}
	f.frames = append(f.frames, frame)
}
