package storage

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk = "local"
)

// Connect boots the local disk and, when S3_BUCKET is set, the s3 disk.
// A broken S3 configuration is logged and the disk left out.
func Connect(ctx context.Context) {
	RegisterDisk("local", NewLocalDisk(config.StorageLocalRoot(), config.StorageURL()))

	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk(ctx)
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			RegisterDisk("s3", d)
		}
	}

	managerMu.Lock()
	defaultDisk = config.StorageDefault()
	managerMu.Unlock()
}

// RegisterDisk plugs in a Disk under name.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	managerMu.Unlock()
}

// SetDefault selects the disk used by the package-level helpers.
func SetDefault(name string) {
	managerMu.Lock()
	defaultDisk = name
	managerMu.Unlock()
}

// Use returns the named disk.
func Use(name string) (Disk, error) {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the disk selected by STORAGE_DISK.
func Default() (Disk, error) {
	managerMu.RLock()
	name := defaultDisk
	managerMu.RUnlock()
	return Use(name)
}

// Store writes r to path on the default disk and returns its public URL.
func Store(ctx context.Context, path string, r io.Reader, contentType string) (string, error) {
	d, err := Default()
	if err != nil {
		return "", err
	}
	if err := d.Put(ctx, path, r, contentType); err != nil {
		return "", err
	}
	return d.URL(path), nil
}
