package heartbeat

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/utils"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

//RedisClient is a subset of redis client used by the store
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

const keyPrefix = "minute:heartbeat:"

//RedisStore keeps heartbeats as unix time values, so workers on many hosts share one check.
//Keys expire after ttl
type RedisStore struct {
	client RedisClient
	ttl     time.Duration
	process string
	now     func() time.Time
}

//NewRedisStore creates store
func NewRedisStore(client RedisClient, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("No redis client")
	}
	return &RedisStore{client: client, ttl: ttl, now: time.Now}, nil
}

//WithProcess prefixes worker keys with the process id, so equal actor ids
//of different hosts do not overwrite each other
func (s *RedisStore) WithProcess(process string) *RedisStore {
	s.process = process
	return s
}

//NewRedisClient parses url and pings the server
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "Can't parse redis url")
	}
	cmdapp.Log.Infof("Connecting to redis %s", utils.URLToLog(url))
	res := redis.NewClient(opt)
	if err := res.Ping(ctx).Err(); err != nil {
		res.Close()
		return nil, errors.Wrap(err, "Can't connect to redis")
	}
	return res, nil
}

//Touch sets worker time
func (s *RedisStore) Touch(ctx context.Context, id string) error {
	if err := s.client.Set(ctx, s.key(id), s.now().Unix(), s.ttl).Err(); err != nil {
		return errors.Wrap(err, "Can't set heartbeat")
	}
	return nil
}

func (s *RedisStore) key(id string) string {
	if s.process == "" {
		return keyPrefix + workerName(id)
	}
	return keyPrefix + s.process + ":" + workerName(id)
}

//Ages scans worker keys
func (s *RedisStore) Ages(ctx context.Context) (map[string]time.Duration, error) {
	res := map[string]time.Duration{}
	now := s.now()
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return nil, errors.Wrap(err, "Can't scan heartbeats")
		}
		for _, k := range keys {
			v, err := s.client.Get(ctx, k).Result()
			if err == redis.Nil {
				continue
			}
			if err != nil {
				return nil, errors.Wrapf(err, "Can't get %s", k)
			}
			ts, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "Wrong heartbeat %s=%s", k, v)
			}
			res[strings.TrimPrefix(k, keyPrefix)] = now.Sub(time.Unix(ts, 0))
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	return res, nil
}
