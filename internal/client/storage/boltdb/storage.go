// Package boltdb хранит локальное состояние клиента SmartNLP в BoltDB файле:
// текущую сессию, настройки интерфейса и кэш истории.
package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/smartnlp/internal/client/storage"
)

var (
	// BoltDB bucket names
	bucketAuth        = []byte("auth")
	bucketPreferences = []byte("preferences")
	bucketHistory     = []byte("history")
)

var (
	_ storage.AuthStorage       = (*Storage)(nil)
	_ storage.PreferenceStorage = (*Storage)(nil)
	_ storage.HistoryCache      = (*Storage)(nil)
)

// openTimeout ограничивает ожидание блокировки файла другим процессом клиента
const openTimeout = time.Second

// Storage represents BoltDB storage implementation for client
type Storage struct {
	db  *bbolt.DB
	now func() time.Time
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	storage := &Storage{db: db, now: time.Now}

	// Инициализируем buckets
	if err := storage.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketAuth, bucketPreferences, bucketHistory} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// bucket возвращает bucket по имени. Отсутствие bucket означает поврежденный файл.
func bucket(tx *bbolt.Tx, name []byte) (*bbolt.Bucket, error) {
	b := tx.Bucket(name)
	if b == nil {
		return nil, fmt.Errorf("%s bucket not found", name)
	}
	return b, nil
}

// putJSON сохраняет value в JSON под ключом key
func (s *Storage) putJSON(name, key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, name)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

// getJSON читает значение по ключу в dst. found == false, если ключа нет.
func (s *Storage) getJSON(name, key []byte, dst any) (found bool, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, name)
		if err != nil {
			return err
		}

		data := b.Get(key)
		if data == nil {
			return nil
		}
		found = true

		if err := json.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", name, err)
		}
		return nil
	})
	return found, err
}

// deleteKey удаляет ключ; missing сообщает, что ключа не было
func (s *Storage) deleteKey(name, key []byte) (missing bool, err error) {
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, name)
		if err != nil {
			return err
		}
		missing = b.Get(key) == nil
		return b.Delete(key)
	})
	return missing, err
}
