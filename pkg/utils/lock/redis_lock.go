package lock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"transfer-core/pkg/safe_random"
)

// DistributedLock 定义分布式锁接口。
// 用途: 同一发送账户的 nonce 获取必须串行 —— 两个并发 Build 会观察到
// 相同的 pending nonce, 产生互相顶替的交易。
type DistributedLock interface {
	// Acquire 尝试获取锁
	// key: 锁的唯一标识 (例如发送地址)
	// ttl: 锁的过期时间
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release 释放锁 (只释放自己持有的)
	Release(ctx context.Context, key string) error
}

// RedisLock 基于 Redis SET NX 的实现。
type RedisLock struct {
	client *redis.Client
	token  string // 持有者标识，防止释放别人的锁
}

func NewRedisLock(client *redis.Client) (*RedisLock, error) {
	token, err := safe_random.GenerateRandomHexString(16)
	if err != nil {
		return nil, err
	}
	return &RedisLock{client: client, token: token}, nil
}

func (l *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	// SET key token NX EX ttl
	return l.client.SetNX(ctx, "lock:"+key, l.token, ttl).Result()
}

// releaseScript: 检查 value 归属再删除，避免误删其他 worker 续期后的锁。
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (l *RedisLock) Release(ctx context.Context, key string) error {
	return releaseScript.Run(ctx, l.client, []string{"lock:" + key}, l.token).Err()
}
