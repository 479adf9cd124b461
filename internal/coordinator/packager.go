package coordinator

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"distributed-imaging/internal/domain"
)

// Packager assembles result downloads from the node results share. The share
// is laid out as <root>/<node name>/<result file>; nodes report absolute
// paths local to themselves, so only the base name is trusted.
type Packager struct {
	resultsRoot string
	archiveDir  string
	logger      *slog.Logger
}

// NewPackager creates a result packager rooted at the shared results
// directory, writing archives into archiveDir.
func NewPackager(resultsRoot, archiveDir string, logger *slog.Logger) *Packager {
	return &Packager{
		resultsRoot: resultsRoot,
		archiveDir:  archiveDir,
		logger:      logger.With("component", "packager"),
	}
}

// resultFile resolves the on-disk location of a job's result.
func (p *Packager) resultFile(job *domain.Job) string {
	return filepath.Join(p.resultsRoot, job.NodeName, filepath.Base(job.ResultPath))
}

// entryName derives the archive entry for a job: the original name with a
// "_processed" marker, carrying the result's extension in case the
// transformation converted the format.
func entryName(job *domain.Job) string {
	base := strings.TrimSuffix(job.ImageName, filepath.Ext(job.ImageName))
	return base + "_processed" + filepath.Ext(job.ResultPath)
}

// PackageSingle resolves the downloadable file for one completed job. It
// returns the file's path and the name it should be served under.
func (p *Packager) PackageSingle(job *domain.Job) (string, string, error) {
	if job.State != domain.JobStateCompleted {
		return "", "", domain.ErrJobNotCompleted
	}

	path := p.resultFile(job)
	if _, err := os.Stat(path); err != nil {
		p.logger.Warn("result file missing from share", "job_id", job.UUID, "path", path, "error", err)
		return "", "", domain.ErrResultNotFound
	}
	return path, entryName(job), nil
}

// PackageBatch zips every result of a fully completed batch and returns the
// archive path. Jobs whose result file has vanished from the share are
// skipped with a warning; an archive with zero entries is an error.
func (p *Packager) PackageBatch(batchID string, jobs []*domain.Job) (string, error) {
	for _, job := range jobs {
		if job.State != domain.JobStateCompleted {
			return "", domain.ErrBatchIncomplete
		}
	}

	if err := os.MkdirAll(p.archiveDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	archivePath := filepath.Join(p.archiveDir, fmt.Sprintf("batch_%s.zip", batchID))
	out, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}

	zw := zip.NewWriter(out)
	var packed int
	for _, job := range jobs {
		path := p.resultFile(job)
		src, err := os.Open(path)
		if err != nil {
			p.logger.Warn("skipping missing batch result", "job_id", job.UUID, "path", path, "error", err)
			continue
		}

		entry, err := zw.Create(entryName(job))
		if err == nil {
			_, err = io.Copy(entry, src)
		}
		src.Close()
		if err != nil {
			zw.Close()
			out.Close()
			os.Remove(archivePath)
			return "", fmt.Errorf("failed to pack result for job %s: %w", job.UUID, err)
		}
		packed++
	}

	if err := zw.Close(); err != nil {
		out.Close()
		os.Remove(archivePath)
		return "", fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(archivePath)
		return "", fmt.Errorf("failed to finalize archive: %w", err)
	}

	if packed == 0 {
		os.Remove(archivePath)
		return "", domain.ErrResultNotFound
	}

	p.logger.Info("packaged batch archive", "batch_id", batchID, "entries", packed, "path", archivePath)
	return archivePath, nil
}
