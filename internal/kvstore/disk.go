package kvstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/2beens/workouttracker/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const docFileSuffix = ".json"

// DiskStore keeps every document in its own file under rootPath.
// Writes go to a temp file first and are renamed into place.
type DiskStore struct {
	rootPath string
	mutex    sync.RWMutex
}

var _ Store = (*DiskStore)(nil)

func NewDiskStore(rootPath string) (*DiskStore, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("create root dir %s: %w", rootPath, err)
	}
	return &DiskStore{
		rootPath: rootPath,
	}, nil
}

func (ds *DiskStore) docPath(key string) string {
	return filepath.Join(ds.rootPath, url.PathEscape(key)+docFileSuffix)
}

func (ds *DiskStore) Get(ctx context.Context, key string) (_ []byte, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "kvstore.disk.get")
	span.SetAttributes(attribute.String("key", key))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	ds.mutex.RLock()
	defer ds.mutex.RUnlock()

	data, err := os.ReadFile(ds.docPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("read doc file: %w", err)
	}
	return data, nil
}

func (ds *DiskStore) Set(ctx context.Context, key string, value []byte) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "kvstore.disk.set")
	span.SetAttributes(attribute.String("key", key), attribute.Int("size", len(value)))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if key == "" {
		return ErrEmptyKey
	}

	ds.mutex.Lock()
	defer ds.mutex.Unlock()

	target := ds.docPath(key)
	tmp, err := os.CreateTemp(ds.rootPath, filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				log.Warnf("kvstore: remove temp file %s: %s", tmpName, rmErr)
			}
		}
	}()

	if _, err = tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	log.Tracef("kvstore: disk doc [%s] written, %d bytes", key, len(value))
	return nil
}

func (ds *DiskStore) Delete(ctx context.Context, keys ...string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "kvstore.disk.delete")
	span.SetAttributes(attribute.StringSlice("keys", keys))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	ds.mutex.Lock()
	defer ds.mutex.Unlock()

	for _, key := range keys {
		if err := os.Remove(ds.docPath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove doc file [%s]: %w", key, err)
		}
	}
	return nil
}

func (ds *DiskStore) Close() error {
	return nil
}
