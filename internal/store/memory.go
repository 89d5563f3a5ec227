package store

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"
)

const shardCount = 64

type memoryShard struct {
	sync.RWMutex
	values map[string]string
	zsets  map[string]map[string]float64
}

// MemoryStore keeps everything in process. State is lost on restart and is
// not visible to other processes.
type MemoryStore struct {
	shards [shardCount]*memoryShard
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	for i := 0; i < shardCount; i++ {
		s.shards[i] = &memoryShard{
			values: make(map[string]string),
			zsets:  make(map[string]map[string]float64),
		}
	}
	return s
}

func (s *MemoryStore) getShard(key string) *memoryShard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return s.shards[h.Sum32()%shardCount]
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	shard := s.getShard(key)
	shard.RLock()
	defer shard.RUnlock()

	v, ok := shard.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	shard := s.getShard(key)
	shard.Lock()
	shard.values[key] = value
	shard.Unlock()
	return nil
}

func (s *MemoryStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	shard := s.getShard(key)
	shard.Lock()
	defer shard.Unlock()

	zset, ok := shard.zsets[key]
	if !ok {
		zset = make(map[string]float64)
		shard.zsets[key] = zset
	}
	zset[member] = score
	return nil
}

func (s *MemoryStore) ZRangeByScore(ctx context.Context, key string, min, max float64) ([]string, error) {
	shard := s.getShard(key)
	shard.RLock()
	type scored struct {
		member string
		score  float64
	}
	var hits []scored
	for member, score := range shard.zsets[key] {
		if score >= min && score <= max {
			hits = append(hits, scored{member, score})
		}
	}
	shard.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score == hits[j].score {
			return hits[i].member < hits[j].member
		}
		return hits[i].score < hits[j].score
	})

	members := make([]string, len(hits))
	for i, h := range hits {
		members[i] = h.member
	}
	return members, nil
}

// FlushAll clears the shards without reallocating them.
func (s *MemoryStore) FlushAll(ctx context.Context) error {
	for _, shard := range s.shards {
		shard.Lock()
		for k := range shard.values {
			delete(shard.values, k)
		}
		for k := range shard.zsets {
			delete(shard.zsets, k)
		}
		shard.Unlock()
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
