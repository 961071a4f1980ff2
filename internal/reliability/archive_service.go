package reliability

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/portsure/platform/internal/database"
	"github.com/portsure/platform/internal/modules/compliance"
)

const (
	archivePrefix     = "portsure-archive-"
	archiveTimeLayout = "2006-01-02-150405"
	archiveTimeout    = 5 * time.Minute

	// Never prune below this many remote archives, whatever the retention
	minArchivesToKeep = 3
)

// ArchiveMetadata describes one uploaded archive
type ArchiveMetadata struct {
	Timestamp time.Time      `json:"timestamp"`
	Files     []FileMetadata `json:"files"`
}

// FileMetadata describes a single file inside the archive
type FileMetadata struct {
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum"`
}

// ArchiveInfo summarizes a remotely stored archive
type ArchiveInfo struct {
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"sizeBytes"`
	AgeHours  int64     `json:"ageHours"`
}

// ArchiveService snapshots the platform databases and the compliance report
// set into a tar.gz and pushes it to object storage.
type ArchiveService struct {
	s3        *S3Client
	databases []*database.DB
	reports   *compliance.Repository
	dataDir   string
	retention int
	log       zerolog.Logger
}

// NewArchiveService creates a new archive service
func NewArchiveService(
	s3 *S3Client,
	databases []*database.DB,
	reports *compliance.Repository,
	dataDir string,
	retention int,
	log zerolog.Logger,
) *ArchiveService {
	return &ArchiveService{
		s3:        s3,
		databases: databases,
		reports:   reports,
		dataDir:   dataDir,
		retention: retention,
		log:       log.With().Str("service", "archive").Logger(),
	}
}

// Archive builds and uploads one archive, then prunes old ones. It satisfies
// the scheduler's Archiver interface.
func (s *ArchiveService) Archive() error {
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	if err := s.CreateAndUpload(ctx); err != nil {
		return err
	}
	return s.RotateOldArchives(ctx)
}

// CreateAndUpload snapshots the databases and report CSV, bundles them and
// uploads the result.
func (s *ArchiveService) CreateAndUpload(ctx context.Context) error {
	s.log.Info().Msg("Starting archive upload")
	startTime := time.Now()

	stagingDir := filepath.Join(s.dataDir, "archive-staging")
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stagingDir)

	metadata := ArchiveMetadata{Timestamp: time.Now().UTC()}
	var filenames []string

	for _, db := range s.databases {
		filename := db.Name() + ".db"
		staged := filepath.Join(stagingDir, filename)

		// Checkpoint so the snapshot includes everything in the WAL
		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			s.log.Warn().Err(err).Str("database", db.Name()).Msg("WAL checkpoint failed before archive")
		}

		if err := copyFile(db.Path(), staged); err != nil {
			return fmt.Errorf("failed to stage %s: %w", db.Name(), err)
		}

		fileMeta, err := describeFile(staged, filename)
		if err != nil {
			return err
		}
		metadata.Files = append(metadata.Files, fileMeta)
		filenames = append(filenames, filename)
	}

	reportsCSV := filepath.Join(stagingDir, "compliance-reports.csv")
	if err := s.exportReportsCSV(reportsCSV); err != nil {
		return fmt.Errorf("failed to export reports: %w", err)
	}
	fileMeta, err := describeFile(reportsCSV, "compliance-reports.csv")
	if err != nil {
		return err
	}
	metadata.Files = append(metadata.Files, fileMeta)
	filenames = append(filenames, "compliance-reports.csv")

	metadataPath := filepath.Join(stagingDir, "archive-metadata.json")
	if err := writeMetadata(metadataPath, metadata); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	filenames = append(filenames, "archive-metadata.json")

	archiveName := archivePrefix + time.Now().Format(archiveTimeLayout) + ".tar.gz"
	archivePath := filepath.Join(stagingDir, archiveName)
	if err := createArchive(archivePath, stagingDir, filenames); err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}

	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer archiveFile.Close()

	if err := s.s3.Upload(ctx, archiveName, archiveFile); err != nil {
		return err
	}

	s.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Str("archive", archiveName).
		Int("files", len(metadata.Files)).
		Msg("Archive uploaded")

	return nil
}

// ListArchives lists archives stored remotely, newest first
func (s *ArchiveService) ListArchives(ctx context.Context) ([]ArchiveInfo, error) {
	objects, err := s.s3.List(ctx, archivePrefix)
	if err != nil {
		return nil, err
	}

	archives := make([]ArchiveInfo, 0, len(objects))
	now := time.Now()

	for _, obj := range objects {
		if obj.Key == nil {
			continue
		}
		filename := *obj.Key
		if !strings.HasSuffix(filename, ".tar.gz") {
			continue
		}

		stamp := strings.TrimSuffix(strings.TrimPrefix(filename, archivePrefix), ".tar.gz")
		timestamp, err := time.Parse(archiveTimeLayout, stamp)
		if err != nil {
			s.log.Warn().Str("filename", filename).Msg("Unparseable archive name; skipping")
			continue
		}

		var sizeBytes int64
		if obj.Size != nil {
			sizeBytes = *obj.Size
		}

		archives = append(archives, ArchiveInfo{
			Filename:  filename,
			Timestamp: timestamp,
			SizeBytes: sizeBytes,
			AgeHours:  int64(now.Sub(timestamp).Hours()),
		})
	}

	sort.Slice(archives, func(i, j int) bool {
		return archives[i].Timestamp.After(archives[j].Timestamp)
	})

	return archives, nil
}

// RotateOldArchives prunes remote archives beyond the retention count,
// always keeping the newest few.
func (s *ArchiveService) RotateOldArchives(ctx context.Context) error {
	archives, err := s.ListArchives(ctx)
	if err != nil {
		return err
	}

	keep := s.retention
	if keep < minArchivesToKeep {
		keep = minArchivesToKeep
	}
	if len(archives) <= keep {
		return nil
	}

	deleted := 0
	for _, old := range archives[keep:] {
		if err := s.s3.Delete(ctx, old.Filename); err != nil {
			s.log.Error().Err(err).Str("filename", old.Filename).Msg("Failed to prune archive")
			continue
		}
		deleted++
	}

	s.log.Info().Int("deleted", deleted).Int("kept", len(archives)-deleted).Msg("Archive rotation completed")
	return nil
}

// exportReportsCSV writes the full compliance report set as CSV
func (s *ArchiveService) exportReportsCSV(path string) error {
	reports, err := s.reports.GetAll()
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"logId", "portfolioId", "regulationType", "findings", "complianceStatus", "date"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range reports {
		row := []string{
			strconv.FormatInt(r.LogID, 10),
			strconv.FormatInt(r.PortfolioID, 10),
			r.RegulationType,
			r.Findings,
			r.ComplianceStatus,
			r.Date,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Error()
}

func describeFile(path, nameInArchive string) (FileMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileMetadata{}, fmt.Errorf("failed to stat %s: %w", nameInArchive, err)
	}

	checksum, err := checksumFile(path)
	if err != nil {
		return FileMetadata{}, fmt.Errorf("failed to checksum %s: %w", nameInArchive, err)
	}

	return FileMetadata{
		Filename:  nameInArchive,
		SizeBytes: info.Size(),
		Checksum:  checksum,
	}, nil
}

func checksumFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}

func writeMetadata(path string, metadata ArchiveMetadata) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

func createArchive(archivePath, sourceDir string, filenames []string) error {
	archiveFile, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer archiveFile.Close()

	gzipWriter := gzip.NewWriter(archiveFile)
	defer gzipWriter.Close()

	tarWriter := tar.NewWriter(gzipWriter)
	defer tarWriter.Close()

	for _, filename := range filenames {
		if err := addFileToArchive(tarWriter, filepath.Join(sourceDir, filename), filename); err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", filename, err)
		}
	}

	return nil
}

func addFileToArchive(tarWriter *tar.Writer, filePath, nameInArchive string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header := &tar.Header{
		Name:    nameInArchive,
		Size:    info.Size(),
		Mode:    int64(info.Mode()),
		ModTime: info.ModTime(),
	}

	if err := tarWriter.WriteHeader(header); err != nil {
		return err
	}

	if _, err := io.Copy(tarWriter, file); err != nil {
		return err
	}

	return nil
}
