package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDB stores the bucket in an on-disk LevelDB database. A single process
// owns the directory, so read-modify-write is serialized with a mutex.
type LevelDB struct {
	db *leveldb.DB
	mu sync.Mutex
}

// OpenLevelDB opens (or creates) the database at path.
func OpenLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", path, err)
	}
	return &LevelDB{db: db}, nil
}

func (l *LevelDB) Get(_ context.Context, key string) (string, bool, error) {
	return l.get(key)
}

func (l *LevelDB) get(key string) (string, bool, error) {
	v, err := l.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("leveldb get %s: %w", key, err)
	}
	return string(v), true, nil
}

func (l *LevelDB) Set(_ context.Context, key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.db.Put([]byte(key), []byte(value), nil); err != nil {
		return fmt.Errorf("leveldb put %s: %w", key, err)
	}
	return nil
}

func (l *LevelDB) Remove(_ context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := new(leveldb.Batch)
	for _, k := range keys {
		batch.Delete([]byte(k))
	}
	if err := l.db.Write(batch, nil); err != nil {
		return fmt.Errorf("leveldb delete: %w", err)
	}
	return nil
}

func (l *LevelDB) Incr(_ context.Context, key string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok, err := l.get(key)
	if err != nil {
		return 0, err
	}
	n, err := parseCounter(key, v, ok)
	if err != nil {
		return 0, err
	}
	n++
	if err := l.db.Put([]byte(key), []byte(strconv.FormatInt(n, 10)), nil); err != nil {
		return 0, fmt.Errorf("leveldb put %s: %w", key, err)
	}
	return n, nil
}

func (l *LevelDB) Update(_ context.Context, key string, fn UpdateFunc) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok, err := l.get(key)
	if err != nil {
		return err
	}
	next, write, err := applyUpdate(fn, v, ok)
	if err != nil || !write {
		return err
	}
	if err := l.db.Put([]byte(key), []byte(next), nil); err != nil {
		return fmt.Errorf("leveldb put %s: %w", key, err)
	}
	return nil
}

func (l *LevelDB) Scan(_ context.Context, prefix string) ([]string, error) {
	iter := l.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iter.Release()
	keys := make([]string, 0)
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("leveldb scan %s: %w", prefix, err)
	}
	return keys, nil
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}
