package cache

import (
	"context"
	"errors"
	"path"
	"sort"
	"sync"
	"testing"

	"parcel-logistics/logger"
)

type recordingInvalidator struct {
	mu     sync.Mutex
	calls  []string
	failOn map[string]bool
}

func (r *recordingInvalidator) Invalidate(_ context.Context, groupKey, scopeID string) error {
	key := groupKey + ":" + scopeID
	r.mu.Lock()
	r.calls = append(r.calls, key)
	r.mu.Unlock()
	if r.failOn[key] {
		return errors.New("redis down")
	}
	return nil
}

func TestInvalidateAllIsBestEffort(t *testing.T) {
	inv := &recordingInvalidator{failOn: map[string]bool{"get-parcels:all": true}}
	targets := append(ParcelListTargets("ag", "of"), ParcelTargets("p1", "A-CM-250704-001")...)

	InvalidateAll(context.Background(), inv, logger.Nop(), targets...)

	sort.Strings(inv.calls)
	want := []string{
		"get-agency-parcels:ag",
		"get-office-parcels:ag:of",
		"get-parcels:all",
		"parcel:p1",
		"track-parcel:A-CM-250704-001",
	}
	if len(inv.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", inv.calls, want)
	}
	for i := range want {
		if inv.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", inv.calls, want)
		}
	}
}

func TestInvalidateAllToleratesNil(t *testing.T) {
	InvalidateAll(context.Background(), nil, nil, Target{GroupKey: "x", ScopeID: "y"})
	InvalidateAll(context.Background(), Noop{}, nil, Target{GroupKey: "x", ScopeID: "y"})
}

func TestKeyMatchesPattern(t *testing.T) {
	key := Key(GroupOfficeParcels, "ag:of", `{"page":"2"}`)
	ok, err := path.Match(Pattern(GroupOfficeParcels, "ag:of"), key)
	if err != nil || !ok {
		t.Fatalf("key %q should match pattern %q", key, Pattern(GroupOfficeParcels, "ag:of"))
	}
	if Key(GroupParcel, "p1", "a") == Key(GroupParcel, "p1", "b") {
		t.Fatalf("different queries must produce different keys")
	}
}

func TestTagTargetsCoverListAndSingleViews(t *testing.T) {
	targets := TagTargets("ag", "of", "t1")
	for _, view := range []struct{ scope, key string }{
		{"ag:of", Key(GroupTags, "ag:of", "")},
		{"t1", Key(GroupTags, "t1", "")},
	} {
		found := false
		for _, target := range targets {
			if ok, _ := path.Match(Pattern(target.GroupKey, target.ScopeID), view.key); ok {
				found = true
			}
		}
		if !found {
			t.Fatalf("no target in %v evicts %q", targets, view.key)
		}
	}
}
