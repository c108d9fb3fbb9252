package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is the subset of go-redis the repositories use. It embeds
// redis.UniversalClient, so both *redis.Client and cluster clients satisfy it.
type Client interface {
	redis.UniversalClient
}

// Nil is returned by reads of missing keys
const Nil = redis.Nil

// TxFailedErr is returned when a watched key changed before EXEC
const TxFailedErr = redis.TxFailedErr
