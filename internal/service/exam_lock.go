package service

import (
	"context"
	"exam_portal_backend/pkg/logger"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExamLocker serializes writers of one exam document. The returned func
// releases the lock and is safe to call more than once.
type ExamLocker interface {
	Lock(ctx context.Context, examID string) (func(), error)
}

type examLockEntry struct {
	sem  chan struct{}
	refs int
}

// LocalExamLocker holds one semaphore per exam for the lifetime of its
// waiters. It only serializes writers inside this process.
type LocalExamLocker struct {
	mu    sync.Mutex
	locks map[string]*examLockEntry
}

func NewLocalExamLocker() *LocalExamLocker {
	return &LocalExamLocker{locks: make(map[string]*examLockEntry)}
}

func (l *LocalExamLocker) Lock(ctx context.Context, examID string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.locks[examID]
	if !ok {
		entry = &examLockEntry{sem: make(chan struct{}, 1)}
		l.locks[examID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(examID, entry)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.sem
			l.release(examID, entry)
		})
	}, nil
}

func (l *LocalExamLocker) release(examID string, entry *examLockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, examID)
	}
}

var releaseLockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisExamLocker serializes writers across instances with SET NX PX. The
// TTL bounds how long a crashed holder can block an exam.
type RedisExamLocker struct {
	Client        *redis.Client
	TTL           time.Duration
	RetryInterval time.Duration
}

func NewRedisExamLocker(client *redis.Client, ttl time.Duration) *RedisExamLocker {
	return &RedisExamLocker{
		Client:        client,
		TTL:           ttl,
		RetryInterval: 25 * time.Millisecond,
	}
}

func examLockKey(examID string) string {
	return fmt.Sprintf("exam_portal:exam_lock:%s", examID)
}

func (l *RedisExamLocker) Lock(ctx context.Context, examID string) (func(), error) {
	key := examLockKey(examID)
	token := uuid.NewString()

	for {
		ok, err := l.Client.SetNX(ctx, key, token, l.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire exam lock: %w", err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(l.RetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// the request context may already be cancelled here
			releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := releaseLockScript.Run(releaseCtx, l.Client, []string{key}, token).Err(); err != nil && err != redis.Nil {
				logger.Log.Warn("release exam lock", zap.String("exam_id", examID), zap.Error(err))
			}
		})
	}, nil
}
