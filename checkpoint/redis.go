package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TarikSercanESENKUL/Dinamik-Operat-r-Atamas-Q-Learning-ile-K-k-Bir-Fabrika-Oyunu/rl"
)

// metadata field inside the hash, alongside the state keys
const numActionsField = "__num_actions__"

// RedisStore keeps the table as a Redis hash: one field per state key
// holding the JSON-encoded value vector. Handy when several training boxes
// share checkpoints.
type RedisStore struct {
	client *redis.Client
	key    string
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(addr, key string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:        addr,
			DialTimeout: 5 * time.Second,
		}),
		key: key,
	}
}

func (s *RedisStore) Save(table *rl.QTable) error {
	ctx := context.Background()
	fields := make(map[string]interface{}, table.Len()+1)
	fields[numActionsField] = strconv.Itoa(table.NumActions())
	for state, vals := range table.Snapshot() {
		data, err := json.Marshal(vals)
		if err != nil {
			return fmt.Errorf("encode values for state %s: %w", state, err)
		}
		fields[state] = string(data)
	}
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key)
	pipe.HSet(ctx, s.key, fields)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store value table under %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisStore) Load() (*rl.QTable, error) {
	ctx := context.Background()
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch value table %s: %w", s.key, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no value table stored under %s", s.key)
	}
	numActions, err := strconv.Atoi(fields[numActionsField])
	if err != nil {
		return nil, fmt.Errorf("value table %s has no action count: %w", s.key, err)
	}
	delete(fields, numActionsField)

	table := rl.NewQTable(numActions)
	for state, encoded := range fields {
		var vals []float64
		if err := json.Unmarshal([]byte(encoded), &vals); err != nil {
			return nil, fmt.Errorf("decode values for state %s: %w", state, err)
		}
		for a, v := range vals {
			table.Set(state, a, v)
		}
	}
	return table, nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
