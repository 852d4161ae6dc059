package storage

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"consentd/internal/models"
	"consentd/internal/providers"
	"consentd/internal/storage/interfaces"
	"consentd/internal/structures"

	json "github.com/goccy/go-json"
)

const archiveSuffix = ".json.zst"

type ArchiverInterface interface {
	Enabled() bool
	Archive(records []models.Record) error
	Sweep() error
}

// Archiver writes a compressed snapshot of the responses that a clear
// call is about to discard. The live store stays empty afterwards; the
// snapshot is an operator-side artifact and is never read back through
// the API. Snapshots older than the configured TTL are removed by Sweep.
type Archiver struct {
	dir        string
	ttl        time.Duration
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewArchiver(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) ArchiverInterface {
	return &Archiver{
		dir:        conf.Persistence.ArchiveDir,
		ttl:        conf.Persistence.ArchiveTTL,
		compressor: compressor,
		logger:     logger,
	}
}

func (a *Archiver) Enabled() bool {
	return a.dir != ""
}

func (a *Archiver) Archive(records []models.Record) error {
	if !a.Enabled() || len(records) == 0 {
		return nil
	}

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	data, err := a.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	name := "responses_" + time.Now().Format("20060102_150405") + archiveSuffix
	target := filepath.Join(a.dir, name)

	tmpFile := target + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpFile, target); err != nil {
		os.Remove(tmpFile)
		return err
	}

	a.logger.Infof(providers.TypeApp, "Archived %d responses to %s", len(records), target)
	return nil
}

// Sweep removes archives whose modification time is older than the TTL.
// A zero TTL keeps archives forever.
func (a *Archiver) Sweep() error {
	if !a.Enabled() || a.ttl <= 0 {
		return nil
	}

	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	cutoff := time.Now().Add(-a.ttl)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), archiveSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(a.dir, entry.Name())
			if err := os.Remove(path); err != nil {
				a.logger.Errorf(providers.TypeApp, "Failed to remove expired archive %s: %s", path, err)
				continue
			}
			a.logger.Infof(providers.TypeApp, "Removed expired archive %s", path)
		}
	}
	return nil
}
