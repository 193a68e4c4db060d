package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	bookingsFile = "bookings.json"
	usersFile    = "users.json"
	lockFileName = ".slotboard.lock"

	backendName = "file"
)

// bookingRecord запись bookings.json
type bookingRecord struct {
	Date       string `json:"date"`
	TimeSlot   string `json:"timeSlot"`
	Username   string `json:"username"`
	UserNumber int64  `json:"userNumber"`
}

// snapshot содержимое обоих документов на время операции
type snapshot struct {
	bookings      []bookingRecord
	users         map[string]int64
	bookingsDirty bool
	usersDirty    bool
}

type snapshotKey struct{}

// Store хранилище доски в двух JSON документах
// Все изменения идут через DoSerializable: мьютекс процесса + flock между процессами
type Store struct {
	dir      string
	loc      *time.Location
	metrics  Metrics
	mu       sync.RWMutex
	lockPath string
}

// Open открывает каталог хранилища и создает пустые документы, если их нет
func Open(dir string, loc *time.Location, m Metrics) (*Store, error) {
	if loc == nil {
		loc = time.Local
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir %s: %v", ErrTransaction, dir, err)
	}

	s := &Store{
		dir:      dir,
		loc:      loc,
		metrics:  m,
		lockPath: filepath.Join(dir, lockFileName),
	}

	if err := s.initFile(bookingsFile, []byte("[]")); err != nil {
		return nil, err
	}
	if err := s.initFile(usersFile, []byte("{}")); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) initFile(name string, empty []byte) error {
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %v", ErrReadDocument, path, err)
	}
	if err := os.WriteFile(path, empty, 0o644); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrWriteDocument, path, err)
	}
	return nil
}

// Dir каталог с документами
func (s *Store) Dir() string {
	return s.dir
}

// DoSerializable выполняет fn эксклюзивно над снимком документов
// Снимок записывается на диск, только если fn завершилась без ошибки и что-то изменила
// Вложенный вызов переиспользует снимок внешнего
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := snapshotFrom(ctx); ok {
		return fn(ctx)
	}

	start := time.Now()
	defer s.observe("transaction", start)

	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := lockFile(s.lockPath, true)
	if err != nil {
		return err
	}
	defer func() { _ = unlock() }()

	snap, err := s.load()
	if err != nil {
		return err
	}

	if err := fn(context.WithValue(ctx, snapshotKey{}, snap)); err != nil {
		return err
	}

	return s.flush(snap)
}

// view выполняет чтение: внутри транзакции по её снимку, иначе под разделяемой блокировкой
func (s *Store) view(ctx context.Context, fn func(snap *snapshot) error) error {
	if snap, ok := snapshotFrom(ctx); ok {
		return fn(snap)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	unlock, err := lockFile(s.lockPath, false)
	if err != nil {
		return err
	}
	defer func() { _ = unlock() }()

	snap, err := s.load()
	if err != nil {
		return err
	}
	return fn(snap)
}

// update выполняет изменение; вне транзакции открывает собственную
func (s *Store) update(ctx context.Context, fn func(snap *snapshot) error) error {
	if snap, ok := snapshotFrom(ctx); ok {
		return fn(snap)
	}
	return s.DoSerializable(ctx, func(ctx context.Context) error {
		snap, _ := snapshotFrom(ctx)
		return fn(snap)
	})
}

func snapshotFrom(ctx context.Context) (*snapshot, bool) {
	snap, ok := ctx.Value(snapshotKey{}).(*snapshot)
	return snap, ok && snap != nil
}

func (s *Store) load() (*snapshot, error) {
	snap := &snapshot{}
	if err := s.readJSON(bookingsFile, &snap.bookings); err != nil {
		return nil, err
	}
	if err := s.readJSON(usersFile, &snap.users); err != nil {
		return nil, err
	}
	if snap.bookings == nil {
		snap.bookings = make([]bookingRecord, 0)
	}
	if snap.users == nil {
		snap.users = make(map[string]int64)
	}
	return snap, nil
}

func (s *Store) readJSON(name string, dst interface{}) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrReadDocument, path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrReadDocument, path, err)
	}
	return nil
}

func (s *Store) flush(snap *snapshot) error {
	start := time.Now()
	defer s.observe("flush", start)

	if snap.bookingsDirty {
		if err := s.writeJSON(bookingsFile, snap.bookings); err != nil {
			return err
		}
	}
	if snap.usersDirty {
		if err := s.writeJSON(usersFile, snap.users); err != nil {
			return err
		}
	}
	return nil
}

// writeJSON пишет документ во временный файл и атомарно подменяет им старый
func (s *Store) writeJSON(name string, v interface{}) error {
	path := filepath.Join(s.dir, name)

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrWriteDocument, path, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp for %s: %v", ErrWriteDocument, path, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write %s: %v", ErrWriteDocument, tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: sync %s: %v", ErrWriteDocument, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrWriteDocument, tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: rename %s: %v", ErrWriteDocument, path, err)
	}
	return nil
}

func (s *Store) observe(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveStoreOperation(backendName, operation, start)
	}
}
