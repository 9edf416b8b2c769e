package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dbsmedya/dqprofile/internal/config"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.DatabaseConfig
		expected string
	}{
		{
			name: "basic DSN",
			cfg: &config.DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				User:     "profiler",
				Password: "secret",
				Database: "quality",
				TLS:      "preferred",
			},
			expected: "profiler:secret@tcp(localhost:3306)/quality?parseTime=true&multiStatements=true&tls=preferred",
		},
		{
			name: "DSN without database",
			cfg: &config.DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				User:     "profiler",
				Password: "secret",
			},
			expected: "profiler:secret@tcp(localhost:3306)/?parseTime=true&multiStatements=true&tls=preferred",
		},
		{
			name: "DSN with TLS disabled",
			cfg: &config.DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				User:     "profiler",
				Password: "",
				Database: "quality",
				TLS:      "disable",
			},
			expected: "profiler:@tcp(localhost:3306)/quality?parseTime=true&multiStatements=true&tls=false",
		},
		{
			name: "DSN with TLS required and custom port",
			cfg: &config.DatabaseConfig{
				Host:     "reports.internal",
				Port:     33060,
				User:     "admin",
				Password: "p@ss!w0rd",
				Database: "quality",
				TLS:      "required",
			},
			expected: "admin:p@ss!w0rd@tcp(reports.internal:33060)/quality?parseTime=true&multiStatements=true&tls=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BuildDSN(tt.cfg)
			if result != tt.expected {
				t.Errorf("BuildDSN() = %q, expected %q", result, tt.expected)
			}
		})
	}
}

func TestNewManager(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "localhost", Port: 3306}

	manager := NewManager(cfg)
	if manager == nil {
		t.Fatal("NewManager() returned nil")
	}
	if manager.config != cfg {
		t.Error("manager.config should point to provided config")
	}
	if manager.DB != nil {
		t.Error("DB should be nil before Connect()")
	}
}

func TestManagerCloseWithoutConnect(t *testing.T) {
	manager := NewManager(&config.DatabaseConfig{Host: "localhost"})
	if err := manager.Close(); err != nil {
		t.Errorf("Close() returned error for unconnected manager: %v", err)
	}
}

func TestManagerPingWithoutConnect(t *testing.T) {
	manager := NewManager(&config.DatabaseConfig{Host: "localhost"})
	if err := manager.Ping(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Ping() = %v, expected ErrNotConnected", err)
	}
}

func TestManagerConnect(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}

	cfg := &config.DatabaseConfig{
		Host:           "localhost",
		Port:           3306,
		User:           "profiler",
		Database:       "quality",
		MaxConnections: 4,
	}
	manager := NewManager(cfg)
	var gotDSN string
	manager.open = func(driverName, dsn string) (*sql.DB, error) {
		if driverName != "mysql" {
			t.Errorf("driver = %q, expected mysql", driverName)
		}
		gotDSN = dsn
		return db, nil
	}

	mock.ExpectPing()
	mock.ExpectPing()
	mock.ExpectClose()

	if err := manager.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if gotDSN != BuildDSN(cfg) {
		t.Errorf("dsn = %q, expected %q", gotDSN, BuildDSN(cfg))
	}
	if err := manager.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
	if err := manager.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
	if manager.DB != nil {
		t.Error("DB should be nil after Close()")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestManagerConnect_RetriesThenFails(t *testing.T) {
	manager := NewManager(&config.DatabaseConfig{Host: "localhost", Port: 3306})
	manager.backoff = time.Millisecond

	attempts := 0
	manager.open = func(string, string) (*sql.DB, error) {
		attempts++
		return nil, errors.New("connection refused")
	}

	err := manager.Connect(context.Background())
	if err == nil {
		t.Fatal("Connect() should fail")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, expected 3", attempts)
	}
	if !strings.Contains(err.Error(), "failed after 3 retries") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestManagerConnect_ContextCancelled(t *testing.T) {
	manager := NewManager(&config.DatabaseConfig{Host: "localhost", Port: 3306})
	manager.backoff = time.Hour
	manager.open = func(string, string) (*sql.DB, error) {
		return nil, errors.New("connection refused")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := manager.Connect(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Connect() = %v, expected context.Canceled", err)
	}
}
