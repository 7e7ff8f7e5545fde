package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mkessler/rewind/internal/db"
	"github.com/mkessler/rewind/internal/logger"
	"github.com/mkessler/rewind/internal/models"
)

// Common scanner errors
var (
	ErrScanAlreadyRunning = errors.New("a scan is already running")
	ErrInvalidLibrary     = errors.New("invalid recording library path")
)

// ScanResult summarizes one pass over the recording library
type ScanResult struct {
	FilesSeen int       `json:"files_seen"`
	Indexed   int       `json:"indexed"`
	Known     int       `json:"known"`
	Skipped   int       `json:"skipped"`
	Errors    []string  `json:"errors,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Scanner keeps the segment store in sync with the recording library. It
// runs one full pass at startup and rescans on a fixed interval; recording
// files are immutable once written, so a known path is never re-read.
type Scanner struct {
	repos       *db.Repositories
	libraryPath string
	formats     map[string]struct{}
	interval    time.Duration

	mu       sync.Mutex
	scanning bool
	started  bool

	stopChan chan struct{}
	done     chan struct{}
}

// NewScanner creates a scanner for the given library
func NewScanner(repos *db.Repositories, libraryPath string, supportedFormats []string, rescanInterval time.Duration) *Scanner {
	formats := make(map[string]struct{}, len(supportedFormats))
	for _, f := range supportedFormats {
		formats["."+strings.ToLower(strings.TrimPrefix(f, "."))] = struct{}{}
	}

	return &Scanner{
		repos:       repos,
		libraryPath: libraryPath,
		formats:     formats,
		interval:    rescanInterval,
		stopChan:    make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start validates the library path, runs an initial scan, and begins the
// periodic rescan loop.
func (s *Scanner) Start(ctx context.Context) error {
	info, err := os.Stat(s.libraryPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: directory does not exist", ErrInvalidLibrary)
		}
		return fmt.Errorf("%w: %w", ErrInvalidLibrary, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: path is not a directory", ErrInvalidLibrary)
	}

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	if _, err := s.ScanOnce(ctx); err != nil {
		return fmt.Errorf("initial library scan failed: %w", err)
	}

	go s.runRescanLoop()
	return nil
}

// Stop halts the periodic rescan loop
func (s *Scanner) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	close(s.stopChan)
	<-s.done
	logger.Log.Debug().Msg("Catalog scanner stopped")
}

// ScanOnce walks the library and indexes every recording file not yet in
// the segment store. Only one scan runs at a time.
func (s *Scanner) ScanOnce(ctx context.Context) (*ScanResult, error) {
	s.mu.Lock()
	if s.scanning {
		s.mu.Unlock()
		return nil, ErrScanAlreadyRunning
	}
	s.scanning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.scanning = false
		s.mu.Unlock()
	}()

	result := &ScanResult{StartTime: time.Now().UTC()}

	err := filepath.Walk(s.libraryPath, func(path string, info os.FileInfo, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("error accessing path %s: %v", path, err))
			logger.Log.Warn().Str("path", path).Err(err).Msg("Error during library walk")
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if _, ok := s.formats[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}

		result.FilesSeen++
		s.indexFile(ctx, path, result)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("library walk failed: %w", err)
	}

	result.EndTime = time.Now().UTC()

	logger.Log.Info().
		Int("files_seen", result.FilesSeen).
		Int("indexed", result.Indexed).
		Int("known", result.Known).
		Int("skipped", result.Skipped).
		Int("error_count", len(result.Errors)).
		Dur("duration", result.EndTime.Sub(result.StartTime)).
		Msg("Recording library scan completed")

	return result, nil
}

// indexFile parses one recording path and inserts its segment. Files that
// do not follow the library layout are counted as skipped; database
// failures are recorded as errors.
func (s *Scanner) indexFile(ctx context.Context, path string, result *ScanResult) {
	relPath, err := filepath.Rel(s.libraryPath, path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, err))
		return
	}

	parsed, err := ParseRecordingPath(relPath)
	if err != nil {
		result.Skipped++
		logger.Log.Debug().Str("path", relPath).Err(err).Msg("Skipping unrecognized file")
		return
	}

	camera, err := s.repos.Cameras.GetOrCreate(ctx, parsed.CameraName)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: camera lookup failed: %v", relPath, err))
		logger.Log.Warn().Str("camera", parsed.CameraName).Err(err).Msg("Failed to resolve camera")
		return
	}

	segment := models.NewSegment(camera.ID, relPath, parsed.StartTime, parsed.EndTime)
	if err := s.repos.Segments.Create(ctx, segment); err != nil {
		// Recording files are immutable, so an already-indexed path needs
		// no update.
		if db.IsDuplicate(err) {
			result.Known++
			return
		}
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", relPath, err))
		logger.Log.Warn().Str("path", relPath).Err(err).Msg("Failed to index segment")
		return
	}

	result.Indexed++
	logger.Log.Debug().
		Str("path", relPath).
		Str("camera", camera.Name).
		Time("start", parsed.StartTime).
		Msg("Segment indexed")
}

// runRescanLoop rescans the library on the configured interval
func (s *Scanner) runRescanLoop() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.Log.Debug().
		Dur("interval", s.interval).
		Msg("Started library rescan loop")

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			if _, err := s.ScanOnce(context.Background()); err != nil && !errors.Is(err, ErrScanAlreadyRunning) {
				logger.Log.Error().Err(err).Msg("Periodic library rescan failed")
			}
		}
	}
}
