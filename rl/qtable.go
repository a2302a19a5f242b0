package rl

import "encoding/json"

// QTable maps state keys to fixed-length action-value vectors. Entries are
// created lazily with zero values the first time a state is touched and
// persist for the lifetime of the table.
type QTable struct {
	numActions int
	table      map[string][]float64
}

func NewQTable(numActions int) *QTable {
	return &QTable{
		numActions: numActions,
		table:      make(map[string][]float64),
	}
}

func (q *QTable) NumActions() int {
	return q.numActions
}

// Get returns the value vector for a state, inserting a zero vector on
// first access. The returned slice is the live entry, not a copy.
func (q *QTable) Get(state string) []float64 {
	if _, ok := q.table[state]; !ok {
		q.table[state] = make([]float64, q.numActions)
	}
	return q.table[state]
}

func (q *QTable) Value(state string, action int) float64 {
	if action < 0 || action >= q.numActions {
		return 0
	}
	return q.Get(state)[action]
}

func (q *QTable) Set(state string, action int, val float64) {
	if action < 0 || action >= q.numActions {
		return
	}
	q.Get(state)[action] = val
}

// Best returns the highest-valued action for a state. Ties break on the
// lowest action index so greedy runs are reproducible.
func (q *QTable) Best(state string) (int, float64) {
	vals := q.Get(state)
	best := 0
	for a := 1; a < len(vals); a++ {
		if vals[a] > vals[best] {
			best = a
		}
	}
	return best, vals[best]
}

// MaxValue is the bootstrap term max_a' Q(s', a').
func (q *QTable) MaxValue(state string) float64 {
	_, v := q.Best(state)
	return v
}

func (q *QTable) HasState(state string) bool {
	_, ok := q.table[state]
	return ok
}

// Len is the number of states touched so far.
func (q *QTable) Len() int {
	return len(q.table)
}

// Snapshot deep-copies the table contents for read-only consumers such as
// persistence. Mutating the snapshot does not affect the table.
func (q *QTable) Snapshot() map[string][]float64 {
	out := make(map[string][]float64, len(q.table))
	for k, vals := range q.table {
		cp := make([]float64, len(vals))
		copy(cp, vals)
		out[k] = cp
	}
	return out
}

type qTableJSON struct {
	NumActions int                  `json:"num_actions"`
	Values     map[string][]float64 `json:"values"`
}

func (q *QTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(qTableJSON{
		NumActions: q.numActions,
		Values:     q.Snapshot(),
	})
}

func (q *QTable) UnmarshalJSON(data []byte) error {
	var enc qTableJSON
	if err := json.Unmarshal(data, &enc); err != nil {
		return err
	}
	q.numActions = enc.NumActions
	q.table = make(map[string][]float64, len(enc.Values))
	for k, vals := range enc.Values {
		// vectors shorter than the action space pad with zeros
		cp := make([]float64, q.numActions)
		copy(cp, vals)
		q.table[k] = cp
	}
	return nil
}
