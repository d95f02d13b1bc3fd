package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/felixbrock/ideaspark/internal/domain"
)

const appendRetries = 5

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisRepo keeps one JSON document per idea plus a sorted set scored by
// creation time in microseconds.
type RedisRepo struct {
	client *redis.Client
	prefix string
}

func NewRedisRepo(ctx context.Context, addr string, prefix string) (*RedisRepo, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	if prefix == "" {
		prefix = "ideaspark"
	}

	return &RedisRepo{client: client, prefix: prefix}, nil
}

func (r *RedisRepo) Close() error {
	return r.client.Close()
}

func (r *RedisRepo) ideaKey(id string) string {
	return fmt.Sprintf("%s:idea:%s", r.prefix, id)
}

func (r *RedisRepo) indexKey() string {
	return fmt.Sprintf("%s:ideas", r.prefix)
}

func (r *RedisRepo) Insert(ctx context.Context, idea domain.Idea) error {
	if idea.FollowUpQuestions == nil {
		idea.FollowUpQuestions = []domain.FollowUpQuestion{}
	}

	doc, err := json.Marshal(idea)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.ideaKey(idea.Id), doc, 0)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{Score: float64(idea.CreatedAt.UnixMicro()), Member: idea.Id})
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert idea %s: %w", idea.Id, err)
	}

	return nil
}

func (r *RedisRepo) List(ctx context.Context) ([]domain.Idea, error) {
	ids, err := r.client.ZRevRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list idea ids: %w", err)
	}

	ideas := []domain.Idea{}
	if len(ids) == 0 {
		return ideas, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.ideaKey(id)
	}

	docs, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}

	for _, doc := range docs {
		s, ok := doc.(string)
		if !ok {
			continue
		}
		var idea domain.Idea
		if err := json.Unmarshal([]byte(s), &idea); err != nil {
			return nil, err
		}
		ideas = append(ideas, idea)
	}

	return ideas, nil
}

func (r *RedisRepo) GetByID(ctx context.Context, id string) (*domain.Idea, error) {
	return r.get(ctx, r.client, id)
}

func (r *RedisRepo) get(ctx context.Context, c getter, id string) (*domain.Idea, error) {
	doc, err := c.Get(ctx, r.ideaKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("idea %s: %w", id, domain.ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("get idea %s: %w", id, err)
	}

	var idea domain.Idea
	if err := json.Unmarshal(doc, &idea); err != nil {
		return nil, err
	}

	return &idea, nil
}

func (r *RedisRepo) AppendFollowUp(ctx context.Context, ideaId string, question domain.FollowUpQuestion) error {
	key := r.ideaKey(ideaId)

	txf := func(tx *redis.Tx) error {
		idea, err := r.get(ctx, tx, ideaId)
		if err != nil {
			return err
		}

		idea.FollowUpQuestions = append(idea.FollowUpQuestions, question)
		doc, err := json.Marshal(idea)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, doc, 0)
			return nil
		})
		return err
	}

	for i := 0; i < appendRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}

	return fmt.Errorf("append follow-up to idea %s: too much contention", ideaId)
}
