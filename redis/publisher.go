// Package redis publishes extracted records to Redis streams.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fwojciec/ramendb"
	"github.com/redis/go-redis/v9"
)

// DefaultStreamPrefix is the stream key prefix used when none is configured.
const DefaultStreamPrefix = "ramendb"

// Ensure Publisher implements ramendb.RecordWriter at compile time.
var _ ramendb.RecordWriter = (*Publisher)(nil)

// Publisher appends each record to the Redis stream for its kind, e.g.
// "ramendb:review". Entries carry the record key, source URL and JSON
// payload.
type Publisher struct {
	client *redis.Client
	prefix string
	maxLen int64
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithStreamPrefix sets the stream key prefix.
func WithStreamPrefix(prefix string) Option {
	return func(p *Publisher) {
		p.prefix = prefix
	}
}

// WithMaxLen caps each stream at roughly n entries. Zero disables trimming.
func WithMaxLen(n int64) Option {
	return func(p *Publisher) {
		p.maxLen = n
	}
}

// NewPublisher creates a Publisher on an existing client.
func NewPublisher(client *redis.Client, opts ...Option) *Publisher {
	p := &Publisher{client: client, prefix: DefaultStreamPrefix}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dial connects to the Redis server at addr and verifies it responds.
func Dial(ctx context.Context, addr string, db int, opts ...Option) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return NewPublisher(client, opts...), nil
}

// Stream returns the stream key records of kind are published to.
func (p *Publisher) Stream(kind ramendb.PageType) string {
	return p.prefix + ":" + string(kind)
}

// WriteRecord publishes the record with XADD.
func (p *Publisher) WriteRecord(ctx context.Context, rec *ramendb.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", rec.Key(), err)
	}

	args := &redis.XAddArgs{
		Stream: p.Stream(rec.Type),
		Values: map[string]any{
			"key":  rec.Key(),
			"id":   strconv.Itoa(rec.ID()),
			"url":  rec.URL,
			"data": string(data),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("publishing %s: %w", rec.Key(), err)
	}
	return nil
}

// Close closes the Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
