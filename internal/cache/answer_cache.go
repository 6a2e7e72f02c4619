package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// AnswerCache holds recent question-answer results per workspace. Any page
// mutation marks the workspace dirty; a dirty workspace bypasses the cache
// until the marker and the cached answers expire, so a stale answer is
// never served over changed content.
type AnswerCache struct {
	client         *redisv9.Client
	answerTTL      time.Duration
	dirtyMarkerTTL time.Duration
}

func NewAnswerCache(client *redisv9.Client, answerTTL, dirtyMarkerTTL time.Duration) *AnswerCache {
	if answerTTL <= 0 {
		answerTTL = 60 * time.Second
	}
	if dirtyMarkerTTL <= 0 || dirtyMarkerTTL < answerTTL {
		dirtyMarkerTTL = answerTTL
	}
	return &AnswerCache{
		client:         client,
		answerTTL:      answerTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

// GetAnswer returns a cached answer for the question, or found=false when
// absent or the workspace has been mutated since it was cached.
func (c *AnswerCache) GetAnswer(ctx context.Context, workspace, question string) (string, bool, error) {
	dirty, err := c.isDirty(ctx, workspace)
	if err != nil || dirty {
		return "", false, err
	}

	raw, err := c.client.Get(ctx, c.answerKey(workspace, question)).Result()
	if err == redisv9.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get answer failed: %w", err)
	}
	return raw, true, nil
}

func (c *AnswerCache) SetAnswer(ctx context.Context, workspace, question, answer string) error {
	if err := c.client.Set(ctx, c.answerKey(workspace, question), answer, c.answerTTL).Err(); err != nil {
		return fmt.Errorf("redis set answer failed: %w", err)
	}
	return nil
}

// MarkDirty flags the workspace after any page mutation.
func (c *AnswerCache) MarkDirty(ctx context.Context, workspace string) error {
	if err := c.client.Set(ctx, c.dirtyKey(workspace), "1", c.dirtyMarkerTTL).Err(); err != nil {
		return fmt.Errorf("redis set dirty marker failed: %w", err)
	}
	return nil
}

func (c *AnswerCache) isDirty(ctx context.Context, workspace string) (bool, error) {
	exists, err := c.client.Exists(ctx, c.dirtyKey(workspace)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check dirty marker failed: %w", err)
	}
	return exists > 0, nil
}

func (c *AnswerCache) answerKey(workspace, question string) string {
	sum := sha1.Sum([]byte(strings.TrimSpace(strings.ToLower(question))))
	return fmt.Sprintf("qa:answer:%s:%s", workspace, hex.EncodeToString(sum[:]))
}

func (c *AnswerCache) dirtyKey(workspace string) string {
	return fmt.Sprintf("qa:dirty:%s", workspace)
}
