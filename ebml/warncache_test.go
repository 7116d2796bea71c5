package ebml

import "testing"

func TestWarnOnceSuppressesRepeats(t *testing.T) {
	var calls []ElementID
	warn := warnOnce(func(id ElementID, msg string) { calls = append(calls, id) })

	warn(0x1234, "unknown")
	warn(0x1234, "unknown")
	warn(0x5678, "unknown")
	warn(0x1234, "unknown")

	if len(calls) != 2 {
		t.Fatalf("expected 2 distinct warnings, got %d: %v", len(calls), calls)
	}
	if calls[0] != 0x1234 || calls[1] != 0x5678 {
		t.Fatalf("unexpected call order: %v", calls)
	}
}

func TestWarnOnceNilIsNil(t *testing.T) {
	if warnOnce(nil) != nil {
		t.Fatalf("warnOnce(nil) should stay nil so callers can skip the check")
	}
}

func TestUnknownIDCacheEvictsOldest(t *testing.T) {
	c := newUnknownIDCache(2)
	c.seen(1)
	c.seen(2)
	c.seen(3) // evicts 1, the least recently touched

	if c.seen(1) {
		t.Fatalf("expected id 1 to have been evicted")
	}
	// The lookup above re-inserted 1, evicting 2 in turn; 3 was touched more
	// recently than 2 and must still be resident.
	if !c.seen(3) {
		t.Fatalf("expected id 3 to still be cached")
	}
}
