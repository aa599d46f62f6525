package redis

import (
	"context"
	"os"
	"testing"
)

// TestBackend needs a live server, set STK_TEST_REDIS_ADDR to run it.
func TestBackend(t *testing.T) {
	addr := os.Getenv("STK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("STK_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	b, err := New(ctx, Options{Addr: addr, Prefix: "stk-test"})
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer b.Close()
	defer b.rdb.Del(ctx, b.key("wallet"))

	if _, ok, err := b.Get(ctx, "wallet"); ok || err != nil {
		t.Errorf("Get(missing) = %v, %v, want not found", ok, err)
	}
	if err := b.Put(ctx, "wallet", []byte(`{"balance":2}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	data, ok, err := b.Get(ctx, "wallet")
	if err != nil || !ok || string(data) != `{"balance":2}` {
		t.Errorf("Get() = %s, %v, %v", data, ok, err)
	}
}

func TestKey(t *testing.T) {
	b := NewWithClient(nil, "")
	if got := b.key("wallet"); got != "stk:wallet" {
		t.Errorf("key(wallet) = %q, want stk:wallet", got)
	}
}
