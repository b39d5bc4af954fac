package handler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestOTPKey(t *testing.T) {
	require.Equal(t, "reset-password:wangwei1", otpKey("wangwei1"))
}

// 验证码依赖 redis 的过期语义：过期后视为验证码错误而不是残留旧值
func TestOTPExpiresInRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	key := otpKey("wangwei1")

	require.NoError(t, rdb.Set(ctx, key, "042913", 15*time.Minute).Err())

	otp, err := rdb.Get(ctx, key).Result()
	require.NoError(t, err)
	require.Equal(t, "042913", otp)

	mr.FastForward(16 * time.Minute)

	_, err = rdb.Get(ctx, key).Result()
	require.ErrorIs(t, err, redis.Nil)
}

// 验证码是一次性的，使用后立即删除
func TestOTPIsSingleUse(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	key := otpKey("lijing2")

	require.NoError(t, rdb.Set(ctx, key, "774210", 15*time.Minute).Err())
	require.NoError(t, rdb.Del(ctx, key).Err())

	_, err := rdb.Get(ctx, key).Result()
	require.ErrorIs(t, err, redis.Nil)
}
