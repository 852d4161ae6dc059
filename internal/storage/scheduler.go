package storage

import (
	"consentd/internal/providers"
	"consentd/internal/storage/interfaces"
	"consentd/internal/structures"

	"github.com/roylee0704/gron"
)

// Scheduler owns the periodic archive sweep and the startup sanity
// check on the data file. There is no periodic persistence job: every
// mutation saves synchronously through the store.
type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	store    StoreInterface
	archiver ArchiverInterface
	cron     *gron.Cron
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	interval := s.config.Persistence.SweepInterval
	if s.archiver.Enabled() && interval > 0 {
		s.cron.AddFunc(gron.Every(interval), func() {
			if err := s.archiver.Sweep(); err != nil {
				s.logger.Errorf(providers.TypeApp, "Archive sweep failed: %s", err)
			}
		})
	}

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore verifies the data file is readable before the server starts
// taking requests, so a corrupt file surfaces at boot instead of as a
// stream of 500s.
func (s *Scheduler) Restore() error {
	records, err := s.store.Load()
	if err != nil {
		return err
	}
	s.logger.Infof(providers.TypeApp, "Loaded %d stored responses from %s", len(records), s.config.Persistence.FilePath)
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, store StoreInterface, archiver ArchiverInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:   config,
		logger:   logger,
		store:    store,
		archiver: archiver,
	}
}
