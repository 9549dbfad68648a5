//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("KINTREE_REDIS_ADDR")
	if addr == "" {
		t.Skip("KINTREE_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisOptions{Addr: addr, Prefix: "kintree-test:" + t.Name() + ":"})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	t.Cleanup(func() { _, _ = c.Clear(context.Background()) })

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Fatalf("Get(missing) = %v, %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get(k) = %q, %v, %v", data, hit, err)
	}
	_ = c.Set(ctx, "k2", []byte("v"), 0)
	n, err := c.Clear(ctx)
	if err != nil || n != 2 {
		t.Errorf("Clear = %d, %v; want 2", n, err)
	}
}
