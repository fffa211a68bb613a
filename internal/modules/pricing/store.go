// README: Pricing store backed by PostgreSQL: configuration knobs and read-only booking aggregates.
package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"skyfare/internal/types"
)

// PriceHistory aggregates completed booking prices for a route and seat class.
type PriceHistory struct {
	Count int
	Avg   float64
	Min   float64
	Max   float64
}

// BookingReader is read access to the booking system's records.
type BookingReader interface {
	CompletedBookingCount(ctx context.Context, userID types.ID) (int, error)
	SeatCounts(ctx context.Context, scheduleID, seatClassID types.ID) (InventorySnapshot, error)
	PriceHistory(ctx context.Context, routeID, seatClassID types.ID) (PriceHistory, error)
	RouteBookingsSince(ctx context.Context, routeID types.ID, since time.Time) (int, error)
}

type Store struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

var (
	_ BookingReader  = (*Store)(nil)
	_ ConfigProvider = (*Store)(nil)
)

func NewStore(db *pgxpool.Pool, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// Load overlays the pricing_configuration rows onto the default knobs.
func (s *Store) Load(ctx context.Context) (Configuration, error) {
	rows, err := s.db.Query(ctx, `SELECT name, value FROM pricing_configuration`)
	if err != nil {
		return Configuration{}, fmt.Errorf("query pricing_configuration: %w", err)
	}
	defer rows.Close()

	values := make(map[string]float64)
	for rows.Next() {
		var name string
		var value float64
		if err := rows.Scan(&name, &value); err != nil {
			return Configuration{}, fmt.Errorf("scan pricing_configuration: %w", err)
		}
		values[name] = value
	}
	if err := rows.Err(); err != nil {
		return Configuration{}, err
	}

	return overlayKnobs(values, s.logger), nil
}

// overlayKnobs applies stored rows onto the defaults. Rows naming no known knob are
// logged and skipped so a stale row cannot discard the rest of the table.
func overlayKnobs(values map[string]float64, logger *zap.Logger) Configuration {
	cfg := DefaultConfiguration()
	if unknown := cfg.Apply(values); len(unknown) > 0 {
		logger.Warn("ignoring unknown pricing knobs", zap.Strings("names", unknown))
	}
	return cfg
}

// SaveKnob upserts one named knob; the value is validated against the resulting configuration.
func (s *Store) SaveKnob(ctx context.Context, name string, value float64) error {
	cfg, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if unknown := cfg.Apply(map[string]float64{name: value}); len(unknown) > 0 {
		return fmt.Errorf("unknown pricing knob %q", name)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
        INSERT INTO pricing_configuration (name, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		name, value,
	)
	return err
}

func (s *Store) CompletedBookingCount(ctx context.Context, userID types.ID) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM bookings
        WHERE user_id = $1 AND status = 'completed'`, string(userID),
	).Scan(&n)
	return n, err
}

func (s *Store) SeatCounts(ctx context.Context, scheduleID, seatClassID types.ID) (InventorySnapshot, error) {
	var inv InventorySnapshot
	err := s.db.QueryRow(ctx, `
        SELECT COUNT(*) FILTER (WHERE is_available), COUNT(*)
        FROM seats
        WHERE schedule_id = $1 AND ($2 = '' OR seat_class_id = $2)`,
		string(scheduleID), string(seatClassID),
	).Scan(&inv.Available, &inv.Total)
	return inv, err
}

func (s *Store) PriceHistory(ctx context.Context, routeID, seatClassID types.ID) (PriceHistory, error) {
	var h PriceHistory
	var avg, lo, hi *float64
	err := s.db.QueryRow(ctx, `
        SELECT COUNT(*), AVG(b.price)::float8, MIN(b.price)::float8, MAX(b.price)::float8
        FROM bookings b
        JOIN schedules sc ON sc.id = b.schedule_id
        WHERE sc.route_id = $1 AND b.seat_class_id = $2 AND b.status = 'completed'`,
		string(routeID), string(seatClassID),
	).Scan(&h.Count, &avg, &lo, &hi)
	if err != nil {
		return PriceHistory{}, err
	}
	if avg != nil {
		h.Avg, h.Min, h.Max = *avg, *lo, *hi
	}
	return h, nil
}

func (s *Store) RouteBookingsSince(ctx context.Context, routeID types.ID, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM bookings b
        JOIN schedules sc ON sc.id = b.schedule_id
        WHERE sc.route_id = $1 AND b.created_at >= $2 AND b.status <> 'cancelled'`,
		string(routeID), since,
	).Scan(&n)
	return n, err
}
