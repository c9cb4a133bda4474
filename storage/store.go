package storage

import (
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrConnection zeigt an, dass die Referenzdatenbank nicht erreichbar ist.
// Wird unverändert propagiert; es gibt keine Retry-Politik.
var ErrConnection = errors.New("reference store unreachable")

// Store kapselt den Zugriff auf eine der Referenzdatenbanken (medgen, gene,
// clinvar, hugo). Die Verbindung wird erst beim ersten Query aufgebaut und
// danach wiederverwendet.
type Store struct {
	dsn    string
	logger *zap.Logger

	// mu schützt den lazy Verbindungsaufbau; die Services rufen den Store
	// aus parallelen HTTP-Handlern auf.
	mu sync.Mutex
	db *gorm.DB
}

// NewStore erstellt einen Store für den angegebenen DSN, ohne zu verbinden.
func NewStore(dsn string, logger *zap.Logger) *Store {
	return &Store{dsn: dsn, logger: logger}
}

// NewStoreWithDB erstellt einen Store um eine bereits geöffnete Verbindung
// herum (Tests, geteilte Pools).
func NewStoreWithDB(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// conn liefert die lazily aufgebaute Datenbank-Verbindung. Genau eine
// Goroutine baut sie auf; alle weiteren bekommen denselben Pool.
func (s *Store) conn() (*gorm.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}
	db, err := gorm.Open(postgres.Open(s.dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		s.logger.Error("Failed to connect to reference store", zap.Error(err))
		return nil, errors.Wrapf(ErrConnection, "open: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrapf(ErrConnection, "pool: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		s.logger.Error("Failed to reach reference store", zap.Error(err))
		return nil, errors.Wrapf(ErrConnection, "ping: %v", err)
	}
	s.db = db
	s.logger.Info("Reference store connected")
	return s.db, nil
}

// Select führt ein parametrisiertes Select aus und scannt die Zeilen in
// dest (Slice von Zeilen-Structs oder einzelnes Struct).
func (s *Store) Select(dest any, query string, args ...any) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if err := db.Raw(query, args...).Scan(dest).Error; err != nil {
		return errors.Wrapf(err, "select failed: %s", query)
	}
	return nil
}

// FetchAll führt ein parametrisiertes Select aus und gibt alle Zeilen als
// Spaltenname->Wert-Maps zurück, in Abfrage-Reihenfolge.
func (s *Store) FetchAll(query string, args ...any) ([]map[string]any, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Raw(query, args...).Rows()
	if err != nil {
		return nil, errors.Wrapf(err, "query failed: %s", query)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			// Treiber liefern Text oft als []byte; für Aufrufer zu string normalisieren
			if b, ok := vals[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = vals[i]
			}
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// FetchRow gibt die erste Zeile des Selects zurück, oder nil, wenn es
// keine Treffer gibt.
func (s *Store) FetchRow(query string, args ...any) (map[string]any, error) {
	rows, err := s.FetchAll(query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// FetchStrings gibt die Werte eines einspaltigen Selects als String-Slice
// zurück, in Abfrage-Reihenfolge.
func (s *Store) FetchStrings(query string, args ...any) ([]string, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var out []string
	if err := db.Raw(query, args...).Scan(&out).Error; err != nil {
		return nil, errors.Wrapf(err, "select failed: %s", query)
	}
	return out, nil
}
