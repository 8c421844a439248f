package db

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

type redisConfig string

func (c redisConfig) GetRedisURL() string       { return string(c) }
func (c redisConfig) GetRedisTLSInsecure() bool { return false }
func (c redisConfig) IsRedisEnabled() bool      { return c != "" }

func TestRedisOptionsTLS(t *testing.T) {
	opt, err := RedisOptions("redis://localhost:6379/2", false)
	require.NoError(t, err)
	require.Nil(t, opt.TLSConfig)
	require.Equal(t, 2, opt.DB)

	opt, err = RedisOptions("redis://localhost:6379", true)
	require.NoError(t, err)
	require.NotNil(t, opt.TLSConfig)
	require.True(t, opt.TLSConfig.InsecureSkipVerify)

	opt, err = RedisOptions("rediss://localhost:6380", false)
	require.NoError(t, err)
	require.NotNil(t, opt.TLSConfig)
	require.False(t, opt.TLSConfig.InsecureSkipVerify)

	_, err = RedisOptions("http://nope", false)
	require.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), redisConfig("redis://"+srv.Addr()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := srv.Get("k")
	require.NoError(t, err)
	require.Equal(t, "v", got)

	_, err = NewRedisClient(context.Background(), redisConfig(""))
	require.Error(t, err)
}
