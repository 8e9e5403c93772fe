package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"parcel-logistics/logger"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// Cache groups used by the parcel read endpoints.
const (
	GroupAllParcels    = "get-parcels"
	GroupAgencyParcels = "get-agency-parcels"
	GroupOfficeParcels = "get-office-parcels"
	GroupParcel        = "parcel"
	GroupTrackParcel   = "track-parcel"
	GroupTags          = "tags"
)

// Invalidator drops every cached entry of a group scope.
type Invalidator interface {
	Invalidate(ctx context.Context, groupKey, scopeID string) error
}

// Target names one group scope to invalidate.
type Target struct {
	GroupKey string
	ScopeID  string
}

func (t Target) String() string {
	return t.GroupKey + ":" + t.ScopeID
}

// Key is the cache key of one response inside a group scope.
func Key(groupKey, scopeID, query string) string {
	sum := md5.Sum([]byte(query))
	return fmt.Sprintf("%s:%s:%s", groupKey, scopeID, hex.EncodeToString(sum[:]))
}

// Pattern matches every key of a group scope.
func Pattern(groupKey, scopeID string) string {
	return fmt.Sprintf("%s:%s:*", groupKey, scopeID)
}

// NewRedisClient connects to addr and verifies the connection.
func NewRedisClient(ctx context.Context, addr string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

type RedisInvalidator struct {
	rdb       *goredis.Client
	batchSize int64
}

func NewRedisInvalidator(rdb *goredis.Client) *RedisInvalidator {
	return &RedisInvalidator{rdb: rdb, batchSize: 200}
}

// Invalidate walks the keyspace with SCAN so large keyspaces never block Redis.
func (r *RedisInvalidator) Invalidate(ctx context.Context, groupKey, scopeID string) error {
	iter := r.rdb.Scan(ctx, 0, Pattern(groupKey, scopeID), r.batchSize).Iterator()
	batch := make([]string, 0, r.batchSize)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if int64(len(batch)) >= r.batchSize {
			if err := r.rdb.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.rdb.Del(ctx, batch...).Err()
	}
	return nil
}

// Noop is used when no cache is configured.
type Noop struct{}

func (Noop) Invalidate(context.Context, string, string) error { return nil }

// InvalidateAll fans out to every target. Failures are logged and never returned.
func InvalidateAll(ctx context.Context, inv Invalidator, log *logger.Logger, targets ...Target) {
	if inv == nil || len(targets) == 0 {
		return
	}
	if log == nil {
		log = logger.Nop()
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var g errgroup.Group
	g.SetLimit(8)
	for _, t := range targets {
		t := t
		g.Go(func() error {
			if err := inv.Invalidate(ctx, t.GroupKey, t.ScopeID); err != nil {
				log.Warn("cache invalidation failed", "group", t.GroupKey, "scope", t.ScopeID, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// ParcelListTargets are the list views touched by any parcel write in an office.
func ParcelListTargets(agencyID, officeID string) []Target {
	return []Target{
		{GroupKey: GroupAllParcels, ScopeID: "all"},
		{GroupKey: GroupAgencyParcels, ScopeID: agencyID},
		{GroupKey: GroupOfficeParcels, ScopeID: agencyID + ":" + officeID},
	}
}

// ParcelTargets are the single-parcel views of one parcel.
func ParcelTargets(parcelID, trackingID string) []Target {
	return []Target{
		{GroupKey: GroupParcel, ScopeID: parcelID},
		{GroupKey: GroupTrackParcel, ScopeID: trackingID},
	}
}

// TagTargets are the tag views whose member counts or statuses follow the parcels of one tag.
func TagTargets(agencyID, officeID, tagID string) []Target {
	return []Target{
		{GroupKey: GroupTags, ScopeID: agencyID + ":" + officeID},
		{GroupKey: GroupTags, ScopeID: tagID},
	}
}
