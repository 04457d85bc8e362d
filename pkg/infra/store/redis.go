package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/domain/model"
	"github.com/redis/go-redis/v9"
)

const (
	keySession = "unidl:session:" // STRING. encoded session
	keyFile    = "unidl:file:"    // HASH. parked file fields and bytes

	fieldName = "name"
	fieldMIME = "mime"
	fieldKind = "kind"
	fieldSize = "size"
	fieldData = "data"
)

// Redis is a SessionStore shared between processes. Every key carries the TTL.
type Redis struct {
	cl  *redis.Client
	ttl time.Duration
}

// NewRedis connects to the server at url (redis://...) and verifies it with PING
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse redis url")
	}

	cl := redis.NewClient(opt)
	if err := cl.Ping(ctx).Err(); err != nil {
		_ = cl.Close()
		return nil, goerr.Wrap(err, "failed to connect to redis", goerr.V("addr", opt.Addr))
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{cl: cl, ttl: ttl}, nil
}

// Close releases the connection pool
func (r *Redis) Close() error {
	return r.cl.Close()
}

func (r *Redis) GetSession(ctx context.Context, id string) (*model.Session, error) {
	raw, err := r.cl.Get(ctx, keySession+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get session", goerr.V("session_id", id))
	}
	return decodeSession(raw)
}

func (r *Redis) PutSession(ctx context.Context, sess *model.Session) error {
	raw, err := encodeSession(sess)
	if err != nil {
		return err
	}

	if err := r.cl.Set(ctx, keySession+sess.ID, raw, r.ttl).Err(); err != nil {
		return goerr.Wrap(err, "failed to put session", goerr.V("session_id", sess.ID))
	}
	return nil
}

func (r *Redis) PutFile(ctx context.Context, sessionID string, file *model.DeliveredFile) error {
	key := keyFile + sessionID
	_, err := r.cl.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			fieldName, file.Name,
			fieldMIME, file.MIMEType,
			fieldKind, string(file.Kind),
			fieldSize, file.Size,
			fieldData, file.Data,
		)
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to park file", goerr.V("session_id", sessionID))
	}
	return nil
}

func (r *Redis) TakeFile(ctx context.Context, sessionID string) (*model.DeliveredFile, error) {
	key := keyFile + sessionID

	var get *redis.MapStringStringCmd
	_, err := r.cl.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.HGetAll(ctx, key)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to take file", goerr.V("session_id", sessionID))
	}

	fields := get.Val()
	if len(fields) == 0 {
		return nil, nil
	}

	size, err := strconv.ParseInt(fields[fieldSize], 10, 64)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid parked file size", goerr.V("session_id", sessionID))
	}

	return &model.DeliveredFile{
		Name:     fields[fieldName],
		MIMEType: fields[fieldMIME],
		Kind:     model.MediaKind(fields[fieldKind]),
		Size:     size,
		Data:     []byte(fields[fieldData]),
	}, nil
}
