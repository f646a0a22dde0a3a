package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"camgallery/internal/models"
)

const (
	imageExt        = ".jpg"
	imageNameLayout = "20060102_150405"
	imageTimeLayout = "2006-01-02 15:04:05"
)

var ErrInvalidFilename = errors.New("invalid image filename")

type ImageRepository interface {
	// Save writes data under a name derived from the current second. Two
	// saves within the same second share a name; the later one wins.
	Save(data []byte) (string, error)
	// List scans the directory on every call, newest modification first.
	List() ([]models.ImageRecord, error)
	Latest() (*models.ImageRecord, error)
	// EvictOldest deletes the least recently modified images until at most
	// maxImages remain.
	EvictOldest() (int, error)
	Count() (int, error)
	Path(filename string) (string, error)
}

type imageRepository struct {
	mu          sync.Mutex
	dir         string
	maxImages   int
	autoCleanup bool
	now         func() time.Time
}

type imageFile struct {
	name    string
	path    string
	modTime time.Time
}

func NewImageRepository(dir string, maxImages int, autoCleanup bool) ImageRepository {
	return &imageRepository{
		dir:         dir,
		maxImages:   maxImages,
		autoCleanup: autoCleanup,
		now:         time.Now,
	}
}

func (r *imageRepository) Save(data []byte) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create images directory: %w", err)
	}

	filename := r.now().Format(imageNameLayout) + imageExt
	if err := os.WriteFile(filepath.Join(r.dir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	log.Printf("Image saved: %s", filename)

	if r.autoCleanup {
		if _, err := r.evictLocked(); err != nil {
			log.Printf("Image cleanup failed: %v", err)
		}
	}

	return filename, nil
}

func (r *imageRepository) List() ([]models.ImageRecord, error) {
	r.mu.Lock()
	files, err := r.scanLocked()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	images := make([]models.ImageRecord, 0, len(files))
	for _, f := range files {
		images = append(images, models.ImageRecord{
			Filename: f.name,
			Time:     displayTime(f.name),
			ModTime:  float64(f.modTime.Unix()) + float64(f.modTime.Nanosecond())/1e9,
		})
	}

	sort.SliceStable(images, func(i, j int) bool {
		return images[i].ModTime > images[j].ModTime
	})
	return images, nil
}

func (r *imageRepository) Latest() (*models.ImageRecord, error) {
	images, err := r.List()
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, nil
	}
	return &images[0], nil
}

func (r *imageRepository) EvictOldest() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evictLocked()
}

func (r *imageRepository) evictLocked() (int, error) {
	files, err := r.scanLocked()
	if err != nil {
		return 0, err
	}
	if len(files) <= r.maxImages {
		return 0, nil
	}

	// Ties on mtime fall back to the name, which sorts chronologically
	// for capture-named files.
	sort.Slice(files, func(i, j int) bool {
		if files[i].modTime.Equal(files[j].modTime) {
			return files[i].name < files[j].name
		}
		return files[i].modTime.Before(files[j].modTime)
	})

	excess := len(files) - r.maxImages
	deleted := 0
	for _, f := range files[:excess] {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return deleted, fmt.Errorf("failed to delete %s: %w", f.name, err)
		}
		deleted++
	}

	log.Printf("Deleted %d old images", deleted)
	return deleted, nil
}

func (r *imageRepository) Count() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	files, err := r.scanLocked()
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

func (r *imageRepository) Path(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) || filepath.Base(filename) != filename {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	return filepath.Join(r.dir, filename), nil
}

func (r *imageRepository) scanLocked() ([]imageFile, error) {
	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read images directory: %w", err)
	}

	files := make([]imageFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), imageExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		files = append(files, imageFile{
			name:    entry.Name(),
			path:    filepath.Join(r.dir, entry.Name()),
			modTime: info.ModTime(),
		})
	}
	return files, nil
}

func displayTime(filename string) string {
	t, err := time.Parse(imageNameLayout, strings.TrimSuffix(filename, imageExt))
	if err != nil {
		return models.UnknownTimestamp
	}
	return t.Format(imageTimeLayout)
}
