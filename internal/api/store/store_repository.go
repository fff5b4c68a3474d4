package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wearcast/wearcast-api/app/observability/metrics"
)

// Keys under which the single "last" snapshot lives. No schema versioning;
// exactly one value per key.
const (
	lastCityKey    = "last_city"
	lastWeatherKey = "last_weather"
)

var _ Store = (*PostgresStore)(nil)

// Store is the durable key/value wrapper for the last selected city and the
// last serialized weather snapshot. Absent values read back as zero values,
// not errors.
type Store interface {
	GetLastCity(ctx context.Context) (string, error)
	SetLastCity(ctx context.Context, city string) error
	GetLastWeather(ctx context.Context) ([]byte, error)
	SetLastWeather(ctx context.Context, raw []byte) error
}

// DBPool is the slice of pgxpool.Pool the store uses; pgxmock satisfies it
// in tests.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresStore struct {
	logger *slog.Logger
	db     DBPool
}

func NewPostgresStore(db DBPool, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		logger: logger,
		db:     db,
	}
}

func (s *PostgresStore) get(ctx context.Context, key string) (string, error) {
	ctx, span := otel.Tracer("cityStore").Start(ctx, "get", trace.WithAttributes(
		attribute.String("store.key", key),
	))
	defer span.End()

	query := `SELECT value FROM app_state WHERE key = $1`
	var value string
	if err := s.db.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		metrics.Get().StoreErrorsTotal.Add(ctx, 1)
		s.logger.ErrorContext(ctx, "Failed to read app state", slog.String("key", key), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to read app state")
		return "", fmt.Errorf("failed to read app state %q: %w", key, err)
	}
	span.SetStatus(codes.Ok, "App state read")
	return value, nil
}

func (s *PostgresStore) set(ctx context.Context, key, value string) error {
	ctx, span := otel.Tracer("cityStore").Start(ctx, "set", trace.WithAttributes(
		attribute.String("store.key", key),
	))
	defer span.End()

	query := `
        INSERT INTO app_state (id, key, value, updated_at)
        VALUES ($1, $2, $3, now())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
    `
	if _, err := s.db.Exec(ctx, query, uuid.New(), key, value); err != nil {
		metrics.Get().StoreErrorsTotal.Add(ctx, 1)
		s.logger.ErrorContext(ctx, "Failed to write app state", slog.String("key", key), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to write app state")
		return fmt.Errorf("failed to write app state %q: %w", key, err)
	}
	span.SetStatus(codes.Ok, "App state written")
	return nil
}

func (s *PostgresStore) GetLastCity(ctx context.Context) (string, error) {
	return s.get(ctx, lastCityKey)
}

func (s *PostgresStore) SetLastCity(ctx context.Context, city string) error {
	return s.set(ctx, lastCityKey, city)
}

func (s *PostgresStore) GetLastWeather(ctx context.Context) ([]byte, error) {
	value, err := s.get(ctx, lastWeatherKey)
	if err != nil || value == "" {
		return nil, err
	}
	return []byte(value), nil
}

func (s *PostgresStore) SetLastWeather(ctx context.Context, raw []byte) error {
	return s.set(ctx, lastWeatherKey, string(raw))
}
