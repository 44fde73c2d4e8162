// README: Redis-backed driver registry: one hash per driver plus a GEO set for radius lookups.
package matching

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"taxi/internal/types"
)

const (
	defaultKeyPrefix = "matching"
	// Redis GEO rejects latitudes beyond the Web Mercator limit.
	maxGeoLatitude = 85.05112878
)

// RedisRegistry keeps driver snapshots in Redis. GEO coordinates are stored
// with reduced precision, so Near widens the radius slightly and the exact
// coordinates are read back from the driver hash.
type RedisRegistry struct {
	redis  *redis.Client
	prefix string
}

func NewRedisRegistry(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{redis: client, prefix: defaultKeyPrefix}
}

// WithPrefix namespaces every key, used by tests sharing one Redis.
func (r *RedisRegistry) WithPrefix(prefix string) *RedisRegistry {
	return &RedisRegistry{redis: r.redis, prefix: prefix}
}

func (r *RedisRegistry) geoKey() string   { return r.prefix + ":drivers" }
func (r *RedisRegistry) orderKey() string { return r.prefix + ":order" }
func (r *RedisRegistry) seqKey() string   { return r.prefix + ":seq" }

func (r *RedisRegistry) driverKey(id types.ID) string {
	return fmt.Sprintf("%s:driver:%s", r.prefix, string(id))
}

func (r *RedisRegistry) Upsert(ctx context.Context, d DriverCandidate) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if math.Abs(d.CurrentLocation.Lat) > maxGeoLatitude {
		return fmt.Errorf("%w: latitude %v outside the indexable range", types.ErrInvalidArgument, d.CurrentLocation.Lat)
	}

	seq, err := r.redis.HGet(ctx, r.driverKey(d.ID), "seq").Int64()
	if err == redis.Nil {
		seq, err = r.redis.Incr(ctx, r.seqKey()).Result()
	}
	if err != nil {
		return err
	}

	pipe := r.redis.TxPipeline()
	pipe.HSet(ctx, r.driverKey(d.ID), map[string]interface{}{
		"seq":          seq,
		"is_online":    strconv.FormatBool(d.IsOnline),
		"is_available": strconv.FormatBool(d.IsAvailable),
		"vehicle_tier": string(d.VehicleTier),
		"lat":          strconv.FormatFloat(d.CurrentLocation.Lat, 'g', -1, 64),
		"lng":          strconv.FormatFloat(d.CurrentLocation.Lng, 'g', -1, 64),
	})
	pipe.GeoAdd(ctx, r.geoKey(), &redis.GeoLocation{
		Name:      string(d.ID),
		Longitude: d.CurrentLocation.Lng,
		Latitude:  d.CurrentLocation.Lat,
	})
	pipe.ZAdd(ctx, r.orderKey(), redis.Z{Score: float64(seq), Member: string(d.ID)})
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisRegistry) Remove(ctx context.Context, id types.ID) error {
	pipe := r.redis.TxPipeline()
	del := pipe.Del(ctx, r.driverKey(id))
	pipe.ZRem(ctx, r.geoKey(), string(id))
	pipe.ZRem(ctx, r.orderKey(), string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	if del.Val() == 0 {
		return ErrDriverNotFound
	}
	return nil
}

func (r *RedisRegistry) Get(ctx context.Context, id types.ID) (DriverCandidate, error) {
	fields, err := r.redis.HGetAll(ctx, r.driverKey(id)).Result()
	if err != nil {
		return DriverCandidate{}, err
	}
	if len(fields) == 0 {
		return DriverCandidate{}, ErrDriverNotFound
	}
	d, _, err := decodeDriver(id, fields)
	return d, err
}

func (r *RedisRegistry) Snapshot(ctx context.Context) ([]DriverCandidate, error) {
	ids, err := r.redis.ZRange(ctx, r.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return r.load(ctx, ids)
}

func (r *RedisRegistry) Near(ctx context.Context, p types.Point, radiusKm float64) ([]DriverCandidate, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if math.Abs(p.Lat) > maxGeoLatitude {
		return r.Snapshot(ctx)
	}
	ids, err := r.redis.GeoSearch(ctx, r.geoKey(), &redis.GeoSearchQuery{
		Longitude:  p.Lng,
		Latitude:   p.Lat,
		Radius:     radiusKm*1.01 + 0.01,
		RadiusUnit: "km",
	}).Result()
	if err != nil {
		return nil, err
	}
	return r.load(ctx, ids)
}

// load reads the driver hashes for ids and returns them in registration order.
// Drivers removed between the index read and the hash read are skipped.
func (r *RedisRegistry) load(ctx context.Context, ids []string) ([]DriverCandidate, error) {
	if len(ids) == 0 {
		return []DriverCandidate{}, nil
	}
	pipe := r.redis.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, r.driverKey(types.ID(id)))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	type seqDriver struct {
		seq    int64
		driver DriverCandidate
	}
	rows := make([]seqDriver, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		d, seq, err := decodeDriver(types.ID(ids[i]), fields)
		if err != nil {
			return nil, err
		}
		rows = append(rows, seqDriver{seq: seq, driver: d})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	out := make([]DriverCandidate, len(rows))
	for i, row := range rows {
		out[i] = row.driver
	}
	return out, nil
}

func decodeDriver(id types.ID, fields map[string]string) (DriverCandidate, int64, error) {
	seq, err := strconv.ParseInt(fields["seq"], 10, 64)
	if err != nil {
		return DriverCandidate{}, 0, fmt.Errorf("driver %s: bad seq: %w", id, err)
	}
	online, err := strconv.ParseBool(fields["is_online"])
	if err != nil {
		return DriverCandidate{}, 0, fmt.Errorf("driver %s: bad is_online: %w", id, err)
	}
	available, err := strconv.ParseBool(fields["is_available"])
	if err != nil {
		return DriverCandidate{}, 0, fmt.Errorf("driver %s: bad is_available: %w", id, err)
	}
	lat, err := strconv.ParseFloat(fields["lat"], 64)
	if err != nil {
		return DriverCandidate{}, 0, fmt.Errorf("driver %s: bad lat: %w", id, err)
	}
	lng, err := strconv.ParseFloat(fields["lng"], 64)
	if err != nil {
		return DriverCandidate{}, 0, fmt.Errorf("driver %s: bad lng: %w", id, err)
	}
	return DriverCandidate{
		ID:              id,
		IsOnline:        online,
		IsAvailable:     available,
		VehicleTier:     VehicleTier(fields["vehicle_tier"]),
		CurrentLocation: types.Point{Lat: lat, Lng: lng},
	}, seq, nil
}
