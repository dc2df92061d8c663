package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Merci306/minimalloc-merci/pkg/model"
)

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, found, err := c.Get(ctx, "missing"); err != nil || found {
		t.Errorf("Get(missing) = found=%v err=%v, want miss", found, err)
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, found, err := c.Get(ctx, "key")
	if err != nil || !found || string(data) != "value" {
		t.Errorf("Get(key) = %q found=%v err=%v, want value", data, found, err)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found, _ := c.Get(ctx, "key"); found {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "stale", []byte("old"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, found, _ := c.Get(ctx, "stale"); found {
		t.Error("expired entry should be a miss")
	}

	// Zero TTL means the entry never expires.
	if err := c.Set(ctx, "pinned", []byte("keep"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, found, _ := c.Get(ctx, "pinned"); !found {
		t.Error("zero-TTL entry should not expire")
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, found, err := c.Get(ctx, "key"); err != nil || found {
		t.Errorf("null cache should always miss, got found=%v err=%v", found, err)
	}
}

func TestFingerprint(t *testing.T) {
	problem := func() *model.Problem {
		return &model.Problem{
			Capacity: 16,
			Buffers: []model.Buffer{
				{ID: "a", Lifespan: model.Lifespan{Lower: 0, Upper: 10}, Size: 4},
			},
		}
	}

	first := Fingerprint(problem())
	second := Fingerprint(problem())
	if first != second {
		t.Errorf("fingerprints of equal problems differ: %s vs %s", first, second)
	}

	changed := problem()
	changed.Buffers[0].Size = 8
	if Fingerprint(changed) == first {
		t.Error("fingerprint did not change with the problem")
	}

	reordered := problem()
	reordered.Buffers = append(reordered.Buffers, model.Buffer{
		ID: "b", Lifespan: model.Lifespan{Lower: 5, Upper: 8}, Size: 2,
	})
	if Fingerprint(reordered) == first {
		t.Error("fingerprint ignored an added buffer")
	}
}
