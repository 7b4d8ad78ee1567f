package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/storefront/internal/application/storefront"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// keyPrefix 会话快照Key前缀
const keyPrefix = "storefront:session:"

// SnapshotStore 基于Redis的会话快照存储
// 设计说明：
// 1. 多实例部署时，会话可以在任意实例上重建（购物车、搜索状态不丢）
// 2. 整个快照序列化为一个JSON字符串，SET带TTL，每次保存顺带续期
// 3. Key设计：storefront:session:{session_id}
type SnapshotStore struct {
	client redis.Cmdable
}

// NewSnapshotStore 创建快照存储
func NewSnapshotStore(client redis.Cmdable) *SnapshotStore {
	return &SnapshotStore{client: client}
}

var _ storefront.SnapshotStore = (*SnapshotStore)(nil)

func key(sessionID string) string {
	return keyPrefix + sessionID
}

// Save 保存快照
func (s *SnapshotStore) Save(ctx context.Context, sessionID string, snap storefront.Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return apperrors.Wrap(err, "序列化会话快照失败")
	}

	if err := s.client.Set(ctx, key(sessionID), data, ttl).Err(); err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, "保存会话快照失败", err)
	}
	return nil
}

// Load 读取快照，不存在返回(nil, nil)
func (s *SnapshotStore) Load(ctx context.Context, sessionID string) (*storefront.Snapshot, error) {
	data, err := s.client.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.WithCode(apperrors.ErrCodeRedisError, "读取会话快照失败", err)
	}

	var snap storefront.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// 旧版本或损坏的数据按不存在处理，调用方会新建会话
		_ = s.client.Del(ctx, key(sessionID)).Err()
		return nil, nil
	}
	return &snap, nil
}

// Delete 删除快照
func (s *SnapshotStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, key(sessionID)).Err(); err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, "删除会话快照失败", err)
	}
	return nil
}
