package factory

import (
	"golang.org/x/exp/rand"

	"github.com/TarikSercanESENKUL/Dinamik-Operat-r-Atamas-Q-Learning-ile-K-k-Bir-Fabrika-Oyunu/rl"
)

type machine struct {
	status    Status
	typeIndex int
	priority  int
	// operator bound to the machine, -1 while unstaffed. At most one
	// operator per machine, enforced by bind.
	operator int
	// minutes of processing left on the current unit
	remaining float64
	// clock minute when a breakdown or maintenance window ends, -1 for none
	downUntil float64
}

// Environment simulates the factory floor: parallel machines in simulated
// time, operator fatigue, stochastic breakdowns and a daily production
// target. It is the sole authority on machine and operator status.
//
// "Parallel" describes the simulated domain only; execution is synchronous
// and single-threaded, one decision-transition pair at a time.
type Environment struct {
	cfg     Config
	encoder Encoder
	// single per-instance random source: seeding one environment never
	// perturbs another
	rng *rand.Rand

	clock    float64
	machines []machine
	// operator -> machine id, -1 while free
	opMachine []int
	// worked minutes per operator per shift
	work    [][]float64
	fatigue []float64
	// last operator per machine, for the switch penalty
	lastOp []int

	produced  int
	defective int
	reached50 bool
	reached80 bool

	// machine awaiting the agent's decision, -1 when none
	current int
	// machines already decided at the current instant; cleared whenever
	// the clock moves so a machine left idle is re-offered at the next event
	decided []bool

	recording bool
	frames    []Frame
}

var (
	_ rl.Environment = (*Environment)(nil)
	_ rl.Recorder    = (*Environment)(nil)
)

// New validates the scenario and builds an environment seeded for
// reproducible episodes. Configuration errors are fatal here; nothing that
// happens during an episode ever is.
func New(cfg Config, seed uint64) (*Environment, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f := &Environment{
		cfg:     cfg,
		encoder: NewEncoder(cfg),
		rng:     rand.New(rand.NewSource(seed)),
	}
	f.Reset()
	return f, nil
}

func (f *Environment) Config() Config  { return f.cfg }
func (f *Environment) NumActions() int { return f.cfg.NumActions() }
func (f *Environment) Clock() float64  { return f.clock }
func (f *Environment) Produced() int   { return f.produced }
func (f *Environment) Defective() int  { return f.defective }

// Shift index for the current clock, clamped to the last shift.
func (f *Environment) Shift() int {
	idx := int(f.clock / f.cfg.ShiftLengthMinutes)
	if idx >= f.cfg.NumShifts {
		idx = f.cfg.NumShifts - 1
	}
	return idx
}

// Reset rewinds to minute zero: all machines idle, all operators free with
// zero accumulated work, counters cleared. The random source is not
// reseeded, so consecutive episodes draw a continuous stream.
func (f *Environment) Reset() rl.State {
	f.clock = 0
	f.produced = 0
	f.defective = 0
	f.reached50 = false
	f.reached80 = false

	f.machines = make([]machine, f.cfg.NumMachines)
	for i := range f.machines {
		f.machines[i] = machine{
			status:    StatusIdle,
			typeIndex: f.cfg.MachineType(i),
			priority:  f.cfg.Priority(i),
			operator:  -1,
			downUntil: -1,
		}
	}
	f.opMachine = make([]int, f.cfg.NumOperators)
	f.lastOp = make([]int, f.cfg.NumMachines)
	for i := range f.opMachine {
		f.opMachine[i] = -1
	}
	for i := range f.lastOp {
		f.lastOp[i] = -1
	}
	f.work = make([][]float64, f.cfg.NumOperators)
	for i := range f.work {
		f.work[i] = make([]float64, f.cfg.NumShifts)
	}
	f.fatigue = make([]float64, f.cfg.NumOperators)
	f.decided = make([]bool, f.cfg.NumMachines)
	f.frames = nil

	f.current = f.nextDecisionMachine()
	return f.encoder.Encode(f.observation())
}

// Step applies one agent decision. Machines awaiting assignment at the same
// instant are offered one per Step with the clock held still; only once no
// decision is pending does simulated time advance to the next event, so
// machines genuinely run in parallel. Illegal actions are absorbed: they
// degrade into the leave-idle action plus a penalty instead of failing the
// episode.
func (f *Environment) Step(action int) (rl.State, float64, bool, rl.Info) {
	var o Outcome

	f.applyAction(action, &o)
	if f.current >= 0 {
		f.decided[f.current] = true
	}
	if f.cfg.AutoFill {
		f.autoFill()
	}

	// staffing is judged at decision time: a machine the agent passed on
	// counts idle, one still awaiting its offer this instant does not
	idleDecided, idleTotal, busy := f.idleCounts()
	o.IdleMachines = idleDecided
	o.FreeOperator = f.hasFreeOperator()
	o.AllRunning = idleTotal == 0 && busy > 0

	if f.nextDecisionMachine() < 0 {
		// nothing left to decide at this instant, move simulated time
		f.advance(&o)
		f.reviveMachines()
		for i := range f.decided {
			f.decided[i] = false
		}
	}

	terminal := f.clock >= f.cfg.DayLengthMinutes
	o.Terminal = terminal
	o.Produced = f.produced
	o.Target = f.cfg.TargetPerDay

	reward := f.cfg.Rewards.Score(o)

	if terminal {
		f.current = -1
	} else {
		f.current = f.nextDecisionMachine()
	}
	if f.recording {
		f.snapshot()
	}

	state := f.encoder.Encode(f.observation())
	info := rl.Info{
		rl.InfoProduced:  f.produced,
		rl.InfoDefective: f.defective,
		rl.InfoClock:     f.clock,
		rl.InfoShift:     f.Shift(),
		rl.InfoIllegal:   o.Illegal,
	}
	return state, reward, terminal, info
}

// applyAction validates and realizes the agent's choice. An action that
// cannot be physically realized marks the outcome illegal and otherwise
// behaves like leave-idle.
func (f *Environment) applyAction(action int, o *Outcome) {
	if action == f.cfg.IdleAction() {
		return
	}
	if action < 0 || action > f.cfg.IdleAction() {
		o.Illegal = true
		return
	}
	if f.current < 0 {
		// assignment requested but no machine awaits one
		o.Illegal = true
		return
	}
	op := action
	if f.opMachine[op] >= 0 {
		o.Illegal = true
		return
	}
	shift := f.Shift()
	if f.work[op][shift] >= f.cfg.CapacityMinutes[op][shift] {
		// shift budget exhausted
		o.Illegal = true
		return
	}
	m := &f.machines[f.current]
	if m.status != StatusIdle || f.isDown(f.current) {
		o.Illegal = true
		return
	}
	if f.lastOp[f.current] >= 0 && f.lastOp[f.current] != op {
		o.SwitchedOperator = true
	}
	f.bind(op, f.current)
	f.lastOp[f.current] = op
	if f.recording {
		f.snapshot()
	}
}

// autoFill staffs the remaining idle machines, highest priority first,
// with the best-skilled free operators. Environment logic only: the agent
// decided nothing here, so no assignment shaping applies, though the
// completions later earn rewards as usual.
func (f *Environment) autoFill() {
	for {
		best := -1
		for i := range f.machines {
			if i == f.current || f.machines[i].status != StatusIdle || f.isDown(i) {
				continue
			}
			if best < 0 || f.machines[i].priority > f.machines[best].priority {
				best = i
			}
		}
		if best < 0 {
			return
		}
		typeIdx := f.machines[best].typeIndex
		shift := f.Shift()
		bestOp := -1
		bestSkill := -1.0
		for op := 0; op < f.cfg.NumOperators; op++ {
			if f.opMachine[op] >= 0 || f.work[op][shift] >= f.cfg.CapacityMinutes[op][shift] {
				continue
			}
			if skill := f.cfg.Skill(op, typeIdx); skill > bestSkill {
				bestSkill = skill
				bestOp = op
			}
		}
		if bestOp < 0 {
			return
		}
		f.bind(bestOp, best)
		f.lastOp[best] = bestOp
	}
}

func (f *Environment) bind(op, machineID int) {
	m := &f.machines[machineID]
	m.operator = op
	m.status = StatusBusy
	m.remaining = f.processTime(op, m.typeIndex)
	f.opMachine[op] = machineID
}

func (f *Environment) processTime(op, typeIdx int) float64 {
	skill := f.cfg.Skill(op, typeIdx)
	if skill < 0.1 {
		skill = 0.1
	}
	t := f.cfg.BaseProcessTimes[typeIdx] / skill
	if min := f.cfg.MinProcessTimes[typeIdx]; t < min {
		t = min
	}
	return t
}

func (f *Environment) isDown(machineID int) bool {
	m := f.machines[machineID]
	return m.downUntil >= 0 && f.clock < m.downUntil
}

func (f *Environment) reviveMachines() {
	for i := range f.machines {
		m := &f.machines[i]
		if m.downUntil >= 0 && f.clock >= m.downUntil {
			m.downUntil = -1
			if m.status == StatusBroken || m.status == StatusMaintenance {
				m.status = StatusIdle
			}
		}
	}
}

// advance moves the clock to the earliest completion among producing
// machines, or by a fixed idle tick when nothing is running, never past
// the end of the day. Work still unfinished at day end is abandoned
// unrewarded.
func (f *Environment) advance(o *Outcome) {
	remainingDay := f.cfg.DayLengthMinutes - f.clock
	if remainingDay <= 0 {
		return
	}

	dt := -1.0
	for i := range f.machines {
		m := f.machines[i]
		if m.status == StatusBusy && m.remaining > 0 {
			if dt < 0 || m.remaining < dt {
				dt = m.remaining
			}
		}
	}
	if dt < 0 {
		tick := f.cfg.IdleTickMinutes
		if tick > remainingDay {
			tick = remainingDay
		}
		f.clock += tick
		return
	}
	if dt > remainingDay {
		dt = remainingDay
	}
	if f.recording {
		f.snapshot()
	}
	f.clock += dt

	var finished []int
	for i := range f.machines {
		m := &f.machines[i]
		if m.status != StatusBusy || m.remaining <= 0 {
			continue
		}
		m.remaining -= dt
		if m.remaining <= 1e-4 {
			m.remaining = 0
			finished = append(finished, i)
		}
	}

	ended := f.clock >= f.cfg.DayLengthMinutes
	for _, id := range finished {
		if ended {
			f.release(id)
			continue
		}
		f.completeUnit(id, o)
	}
}

// completeUnit books the finished part: operator work time and fatigue,
// good/defect classification, milestone flags, and the single stochastic
// breakdown/maintenance injection point.
func (f *Environment) completeUnit(machineID int, o *Outcome) {
	m := &f.machines[machineID]
	op := m.operator
	if op < 0 {
		f.release(machineID)
		return
	}
	skill := f.cfg.Skill(op, m.typeIndex)
	shift := f.Shift()
	f.work[op][shift] += f.processTime(op, m.typeIndex)

	part := CompletedPart{Skill: skill, SkillBucket: f.encoder.SkillBucket(skill)}
	capacity := f.cfg.CapacityMinutes[op][shift]
	if capacity > 0 {
		usage := f.work[op][shift] / capacity
		if f.cfg.FatigueThreshold < 1 && usage >= f.cfg.FatigueThreshold {
			fat := (usage - f.cfg.FatigueThreshold) / (1 - f.cfg.FatigueThreshold)
			if fat > 1 {
				fat = 1
			}
			f.fatigue[op] = fat
			part.Fatigue = fat
		}
		if f.work[op][shift] > capacity {
			part.OverCapacityRatio = (f.work[op][shift] - capacity) / capacity
		}
	}

	pDefect := 0.5 - skill
	if pDefect < 0 {
		pDefect = 0
	}
	part.Defective = f.rng.Float64() < pDefect
	if part.Defective {
		f.defective++
	} else {
		f.produced++
		target := float64(f.cfg.TargetPerDay)
		if !f.reached50 && float64(f.produced) >= 0.5*target {
			f.reached50 = true
			o.Crossed50 = true
		}
		if !f.reached80 && float64(f.produced) >= 0.8*target {
			f.reached80 = true
			o.Crossed80 = true
		}
	}
	o.Completed = append(o.Completed, part)
	if f.recording {
		f.snapshot()
	}

	// breakdown outranks maintenance; either one frees the operator
	if f.rng.Float64() < f.cfg.BreakdownProb {
		f.takeDown(machineID, StatusBroken, f.cfg.MaxBreakdownShifts, f.cfg.MinBreakdownMinutes)
		return
	}
	if f.rng.Float64() < f.cfg.MaintenanceProb {
		f.takeDown(machineID, StatusMaintenance, f.cfg.MaxMaintenanceShifts, f.cfg.MinMaintenanceMinutes)
		return
	}
	f.release(machineID)
}

// takeDown puts a machine out of service for a stochastic window. A
// machine is never simultaneously busy and down: the bound operator is
// released immediately.
func (f *Environment) takeDown(machineID int, status Status, maxShifts int, minMinutes float64) {
	maxDur := float64(maxShifts) * f.cfg.ShiftLengthMinutes
	dur := 0.5*maxDur + f.rng.Float64()*0.5*maxDur
	if dur < minMinutes {
		dur = minMinutes
	}
	m := &f.machines[machineID]
	f.freeOperator(machineID)
	m.status = status
	m.downUntil = f.clock + dur
}

func (f *Environment) release(machineID int) {
	f.freeOperator(machineID)
	f.machines[machineID].status = StatusIdle
}

func (f *Environment) freeOperator(machineID int) {
	m := &f.machines[machineID]
	if m.operator >= 0 {
		f.opMachine[m.operator] = -1
	}
	m.operator = -1
	m.remaining = 0
}

// idleCounts summarizes staffing at the current instant: usable idle
// machines the agent already passed on, usable idle machines in total,
// and how many machines are producing.
func (f *Environment) idleCounts() (idleDecided, idleTotal, busy int) {
	for i := range f.machines {
		switch {
		case f.machines[i].status == StatusBusy:
			busy++
		case f.machines[i].status == StatusIdle && !f.isDown(i):
			idleTotal++
			if f.decided[i] {
				idleDecided++
			}
		}
	}
	return idleDecided, idleTotal, busy
}

// hasFreeOperator reports whether any unbound operator still has shift
// budget left.
func (f *Environment) hasFreeOperator() bool {
	shift := f.Shift()
	for op := 0; op < f.cfg.NumOperators; op++ {
		if f.opMachine[op] < 0 && f.work[op][shift] < f.cfg.CapacityMinutes[op][shift] {
			return true
		}
	}
	return false
}

// nextDecisionMachine picks the machine awaiting assignment: idle, not
// down, not yet decided at this instant, highest priority first, lowest
// index on ties.
func (f *Environment) nextDecisionMachine() int {
	best := -1
	for i := range f.machines {
		if f.machines[i].status != StatusIdle || f.isDown(i) || f.decided[i] {
			continue
		}
		if best < 0 || f.machines[i].priority > f.machines[best].priority {
			best = i
		}
	}
	return best
}

func (f *Environment) observation() Observation {
	obs := Observation{
		Machine:       f.current,
		Shift:         f.Shift(),
		TimeRemaining: f.cfg.DayLengthMinutes - f.clock,
		Shortfall:     f.cfg.TargetPerDay - f.produced,
		OperatorFree:  make([]bool, f.cfg.NumOperators),
		Skills:        make([]float64, f.cfg.NumOperators),
		MachineStatus: make([]Status, f.cfg.NumMachines),
	}
	if obs.TimeRemaining < 0 {
		obs.TimeRemaining = 0
	}
	for op := range obs.OperatorFree {
		obs.OperatorFree[op] = f.opMachine[op] < 0
	}
	if f.current >= 0 {
		obs.Priority = f.machines[f.current].priority
		typeIdx := f.machines[f.current].typeIndex
		for op := range obs.Skills {
			obs.Skills[op] = f.cfg.Skill(op, typeIdx)
		}
	}
	for i := range f.machines {
		obs.MachineStatus[i] = f.machines[i].status
	}
	return obs
}
