package queue

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Queue names consumed by the out-of-band workers.
const (
	FileQueue = "fileQueue"
	UserQueue = "userQueue"
)

const defaultMaxLen = 10000

// RedisDispatcher is the producer half of the job pipeline: it hands
// messages to named Redis streams and never waits for a result.
type RedisDispatcher struct {
	client *redis.Client
	maxLen int64
}

func NewRedisDispatcher(client *redis.Client) *RedisDispatcher {
	return &RedisDispatcher{client: client, maxLen: defaultMaxLen}
}

// DispatchFileJob enqueues a derivative-generation request for an uploaded
// image. Called once per successful image upload, after the metadata write.
func (d *RedisDispatcher) DispatchFileJob(ctx context.Context, userID, fileID int64) error {
	return d.client.XAdd(ctx, &redis.XAddArgs{
		Stream: FileQueue,
		MaxLen: d.maxLen,
		Approx: true,
		Values: map[string]any{
			"userId": strconv.FormatInt(userID, 10),
			"fileId": strconv.FormatInt(fileID, 10),
		},
	}).Err()
}

// DispatchUserJob enqueues post-registration welcome processing.
func (d *RedisDispatcher) DispatchUserJob(ctx context.Context, userID int64) error {
	return d.client.XAdd(ctx, &redis.XAddArgs{
		Stream: UserQueue,
		MaxLen: d.maxLen,
		Approx: true,
		Values: map[string]any{
			"userId": strconv.FormatInt(userID, 10),
		},
	}).Err()
}
