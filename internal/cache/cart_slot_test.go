package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tallow-shop/storefront/internal/cart"

	"github.com/redis/go-redis/v9"
)

func TestCartSlotKey(t *testing.T) {
	s := NewCartSlot(nil, " tallow:cart ", time.Hour)
	if got := s.key("3f2c"); got != "tallow:cart:3f2c" {
		t.Fatalf("unexpected key: %s", got)
	}
	bare := NewCartSlot(nil, "", 0)
	if got := bare.key("3f2c"); got != "3f2c" {
		t.Fatalf("unexpected bare key: %s", got)
	}
}

func TestCartSlotWithoutClient(t *testing.T) {
	s := NewCartSlot(nil, "cart", 0)
	if _, err := s.Load(context.Background(), "a"); err == nil {
		t.Fatalf("expected error without client")
	}
	if err := s.Save(context.Background(), "a", []byte("[]")); err == nil {
		t.Fatalf("expected error without client")
	}
}

func TestCartSlotUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	s := NewCartSlot(client, "cart", 0)
	_, err := s.Load(context.Background(), "a")
	if err == nil || errors.Is(err, cart.ErrSlotEmpty) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if !strings.Contains(err.Error(), "redis get cart slot") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildKey(t *testing.T) {
	old := redisPrefix
	t.Cleanup(func() { redisPrefix = old })

	redisPrefix = ""
	if got := BuildKey("review", " ", "1.2.3.4"); got != "tallow:review:1.2.3.4" {
		t.Fatalf("unexpected key: %s", got)
	}
	redisPrefix = "shop"
	if got := BuildKey("cart"); got != "shop:cart" {
		t.Fatalf("unexpected key: %s", got)
	}
}
