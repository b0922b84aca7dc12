package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/envsnap/envsnap/internal/domain"
	"github.com/envsnap/envsnap/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName       = "config"
	configType       = "toml"
	archivePathKey   = "archive.path"
	archiveFileMode  = 0o600
	archiveDirMode   = 0o700
	archiveConfigDir = ".envsnap"
	archiveFile      = "snapshots.toml"
	tempFilePattern  = ".snapshots-*.toml.tmp"
)

// Archive persists snapshots to a TOML file so captures survive the process.
type Archive struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.SnapshotArchive = (*Archive)(nil)

func NewArchive(cfg *viper.Viper) (*Archive, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, archiveConfigDir, archiveFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, archiveConfigDir))
	cfg.SetDefault(archivePathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	archivePath := cfg.GetString(archivePathKey)
	if archivePath == "" {
		return nil, errors.New("archive path is empty")
	}
	archivePath, err = normalizeArchivePath(archivePath)
	if err != nil {
		return nil, err
	}

	return &Archive{path: archivePath, mu: lockForPath(archivePath)}, nil
}

func (a *Archive) Save(ctx context.Context, snap domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	file, err := a.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	encoded := toSchema(snap)
	updated := false
	for i := range file.Snapshots {
		if file.Snapshots[i].Name == encoded.Name {
			file.Snapshots[i] = encoded
			updated = true
			break
		}
	}

	if !updated {
		file.Snapshots = append(file.Snapshots, encoded)
	}

	return a.writeSchema(file)
}

func (a *Archive) Load(ctx context.Context, name string) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	file, err := a.readSchema()
	if err != nil {
		return domain.Snapshot{}, err
	}

	for _, entry := range file.Snapshots {
		if entry.Name == name {
			return fromSchema(entry)
		}
	}

	return domain.Snapshot{}, domain.ErrSnapshotNotFound
}

func (a *Archive) List(ctx context.Context) ([]domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	file, err := a.readSchema()
	if err != nil {
		return nil, err
	}

	snapshots := make([]domain.Snapshot, 0, len(file.Snapshots))
	for _, entry := range file.Snapshots {
		snap, err := fromSchema(entry)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}

	return snapshots, nil
}

func (a *Archive) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	file, err := a.readSchema()
	if err != nil {
		return err
	}

	kept := file.Snapshots[:0]
	found := false
	for _, entry := range file.Snapshots {
		if entry.Name == name {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return domain.ErrSnapshotNotFound
	}
	file.Snapshots = kept

	return a.writeSchema(file)
}

func (a *Archive) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read snapshots file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode snapshots file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (a *Archive) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(a.path), archiveDirMode); err != nil {
		return fmt.Errorf("create snapshots directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode snapshots file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(a.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp snapshots file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp snapshots file: %w", err)
	}

	if err := tempFile.Chmod(archiveFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp snapshots file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp snapshots file: %w", err)
	}

	if err := os.Rename(tempName, a.path); err != nil {
		return fmt.Errorf("replace snapshots file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(a.path, archiveFileMode); err != nil {
		return fmt.Errorf("chmod snapshots file: %w", err)
	}

	return nil
}

func normalizeArchivePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve archive path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
