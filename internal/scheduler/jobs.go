package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/portsure/platform/internal/clientdata"
	"github.com/portsure/platform/internal/modules/compliance"
)

// Schedules for the standing platform jobs (cron with seconds field)
const (
	// NightlyAuditSchedule re-audits every portfolio at 02:00
	NightlyAuditSchedule = "0 0 2 * * *"
	// ArchiveSchedule uploads the compliance archive at 03:00
	ArchiveSchedule = "0 0 3 * * *"
	// CacheCleanupSchedule evicts expired lookup cache rows every 10 minutes
	CacheCleanupSchedule = "0 */10 * * * *"
)

// AuditAllJob runs a full compliance sweep across every known portfolio
type AuditAllJob struct {
	service *compliance.AuditService
	log     zerolog.Logger
}

// NewAuditAllJob creates the nightly audit job
func NewAuditAllJob(service *compliance.AuditService, log zerolog.Logger) *AuditAllJob {
	return &AuditAllJob{
		service: service,
		log:     log.With().Str("job", "audit_all").Logger(),
	}
}

// Name implements Job
func (j *AuditAllJob) Name() string { return "nightly-compliance-audit" }

// Run implements Job
func (j *AuditAllJob) Run() error {
	reports, err := j.service.AuditAll()
	if err != nil {
		return err
	}
	j.log.Info().Int("reports", len(reports)).Msg("Nightly audit completed")
	return nil
}

// Archiver uploads the platform archive to object storage
type Archiver interface {
	Archive() error
}

// ArchiveJob pushes the nightly backup archive
type ArchiveJob struct {
	archiver Archiver
	log      zerolog.Logger
}

// NewArchiveJob creates the nightly archive job
func NewArchiveJob(archiver Archiver, log zerolog.Logger) *ArchiveJob {
	return &ArchiveJob{
		archiver: archiver,
		log:      log.With().Str("job", "archive").Logger(),
	}
}

// Name implements Job
func (j *ArchiveJob) Name() string { return "nightly-archive" }

// Run implements Job
func (j *ArchiveJob) Run() error {
	return j.archiver.Archive()
}

// CacheCleanupJob evicts expired rows from the lookup cache
type CacheCleanupJob struct {
	cache *clientdata.Repository
	log   zerolog.Logger
}

// NewCacheCleanupJob creates the cache cleanup job
func NewCacheCleanupJob(cache *clientdata.Repository, log zerolog.Logger) *CacheCleanupJob {
	return &CacheCleanupJob{
		cache: cache,
		log:   log.With().Str("job", "cache_cleanup").Logger(),
	}
}

// Name implements Job
func (j *CacheCleanupJob) Name() string { return "lookup-cache-cleanup" }

// Run implements Job
func (j *CacheCleanupJob) Run() error {
	removed, err := j.cache.DeleteAllExpired()
	if err != nil {
		return err
	}
	for table, count := range removed {
		if count > 0 {
			j.log.Debug().Str("table", table).Int64("removed", count).Msg("Evicted expired cache rows")
		}
	}
	return nil
}
