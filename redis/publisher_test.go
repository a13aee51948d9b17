package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fwojciec/ramendb"
	rredis "github.com/fwojciec/ramendb/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPublisher(t *testing.T, opts ...rredis.Option) (*rredis.Publisher, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	pub, err := rredis.Dial(context.Background(), mr.Addr(), 0, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { pub.Close() })
	return pub, client
}

func user(id int) *ramendb.Record {
	name := "麺好き"
	return &ramendb.Record{
		Type: ramendb.PageUser,
		URL:  "https://ramendb.supleks.jp/u/42.html",
		User: &ramendb.User{UserID: id, Name: &name},
	}
}

func TestPublisher_WriteRecord(t *testing.T) {
	t.Parallel()

	t.Run("adds an entry to the kind's stream", func(t *testing.T) {
		t.Parallel()

		pub, client := setupPublisher(t)
		ctx := context.Background()

		require.NoError(t, pub.WriteRecord(ctx, user(42)))

		msgs, err := client.XRange(ctx, "ramendb:user", "-", "+").Result()
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "user/42", msgs[0].Values["key"])
		assert.Equal(t, "42", msgs[0].Values["id"])
		assert.Equal(t, "https://ramendb.supleks.jp/u/42.html", msgs[0].Values["url"])
		assert.JSONEq(t, `{"user_id":42,"name":"麺好き"}`, msgs[0].Values["data"].(string))
	})

	t.Run("honors stream prefix", func(t *testing.T) {
		t.Parallel()

		pub, client := setupPublisher(t, rredis.WithStreamPrefix("crawl"))
		ctx := context.Background()

		assert.Equal(t, "crawl:user", pub.Stream(ramendb.PageUser))
		require.NoError(t, pub.WriteRecord(ctx, user(1)))

		n, err := client.XLen(ctx, "crawl:user").Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("trims streams to max length", func(t *testing.T) {
		t.Parallel()

		pub, client := setupPublisher(t, rredis.WithMaxLen(3))
		ctx := context.Background()

		for id := 1; id <= 6; id++ {
			require.NoError(t, pub.WriteRecord(ctx, user(id)))
		}

		n, err := client.XLen(ctx, "ramendb:user").Result()
		require.NoError(t, err)
		assert.LessOrEqual(t, n, int64(3))
	})

	t.Run("rejects invalid record", func(t *testing.T) {
		t.Parallel()

		pub, _ := setupPublisher(t)
		err := pub.WriteRecord(context.Background(), &ramendb.Record{Type: ramendb.PageUser, User: &ramendb.User{}})
		assert.Equal(t, ramendb.EINVALID, ramendb.ErrorCode(err))
	})
}

func TestDial_Unreachable(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := rredis.Dial(context.Background(), addr, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connecting to redis")
}
