// Package catalog indexes the on-disk recording library into the segment
// store. Recordings are laid out as
// <library>/<camera>/<YYYY-MM-DD>/<HH-MM-SS>_<duration>s.<ext>, one file
// per contiguous recording segment.
package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mkessler/rewind/internal/models"
)

// ErrUnrecognizedLayout marks a file that does not follow the recording
// library layout. Such files are skipped, not treated as scan failures.
var ErrUnrecognizedLayout = errors.New("path does not match recording layout")

// Filename pattern: "14-05-30_600s" is a segment starting at 14:05:30
// local day time, 600 seconds long.
var patternSegmentFile = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{2})_(\d+)s$`)

// ParsedRecording is the metadata extracted from a recording file path
type ParsedRecording struct {
	CameraName string
	StartTime  time.Time
	EndTime    time.Time
}

// ParseRecordingPath extracts camera, start, and end from a path relative
// to the library root.
func ParseRecordingPath(relPath string) (*ParsedRecording, error) {
	parts := strings.Split(filepath.ToSlash(relPath), "/")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: want camera/date/file, got %q", ErrUnrecognizedLayout, relPath)
	}

	cameraName := strings.TrimSpace(parts[0])
	if cameraName == "" {
		return nil, fmt.Errorf("%w: empty camera directory in %q", ErrUnrecognizedLayout, relPath)
	}

	day, err := models.ParseDateKey(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: bad date directory %q", ErrUnrecognizedLayout, parts[1])
	}

	filename := parts[2]
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	matches := patternSegmentFile.FindStringSubmatch(name)
	if matches == nil {
		return nil, fmt.Errorf("%w: bad segment filename %q", ErrUnrecognizedLayout, filename)
	}

	hour, _ := strconv.Atoi(matches[1])
	minute, _ := strconv.Atoi(matches[2])
	second, _ := strconv.Atoi(matches[3])
	durationSec, _ := strconv.Atoi(matches[4])

	if hour > 23 || minute > 59 || second > 59 {
		return nil, fmt.Errorf("%w: time of day out of range in %q", ErrUnrecognizedLayout, filename)
	}
	if durationSec <= 0 {
		return nil, fmt.Errorf("%w: non-positive duration in %q", ErrUnrecognizedLayout, filename)
	}

	start := day.Start().Add(
		time.Duration(hour)*time.Hour +
			time.Duration(minute)*time.Minute +
			time.Duration(second)*time.Second)

	return &ParsedRecording{
		CameraName: cameraName,
		StartTime:  start,
		EndTime:    start.Add(time.Duration(durationSec) * time.Second),
	}, nil
}
