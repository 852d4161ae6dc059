package storage

import (
	"os"
	"sync"

	"consentd/internal/models"
	"consentd/internal/providers"
	"consentd/internal/structures"

	json "github.com/goccy/go-json"
)

type StoreInterface interface {
	Load() ([]models.Record, error)
	Save(records []models.Record) error
	Append(record models.Record) (int, error)
	Count() (int, error)
}

// FileStore persists the full response collection in one JSON file,
// pretty-printed with 2-space indentation. Every mutation runs the
// whole load-modify-save sequence under the store mutex, so concurrent
// submissions cannot lose writes to a last-save-wins overwrite.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger providers.Logger
}

func NewFileStore(conf *structures.Config, logger providers.Logger) StoreInterface {
	return &FileStore{
		path:   conf.Persistence.FilePath,
		logger: logger,
	}
}

func (fs *FileStore) Load() ([]models.Record, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.loadLocked()
}

func (fs *FileStore) Save(records []models.Record) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.saveLocked(records)
}

// Append adds one record to the end of the collection and persists it,
// returning the new total.
func (fs *FileStore) Append(record models.Record) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	records, err := fs.loadLocked()
	if err != nil {
		return 0, err
	}
	records = append(records, record)
	if err = fs.saveLocked(records); err != nil {
		return 0, err
	}
	return len(records), nil
}

func (fs *FileStore) Count() (int, error) {
	records, err := fs.Load()
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (fs *FileStore) loadLocked() ([]models.Record, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Record{}, nil
		}
		return nil, err
	}

	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.Record{}
	}
	return records, nil
}

func (fs *FileStore) saveLocked(records []models.Record) error {
	if records == nil {
		records = []models.Record{}
	}
	jsonData, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	tmpFile := fs.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(jsonData)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fs.path)
}
