package service

import (
	"context"
	"log"

	"camgallery/internal/clients"
	"camgallery/internal/metrics"
	"camgallery/internal/models"
	"camgallery/internal/repository"
)

type ImageService interface {
	Upload(ctx context.Context, data []byte) (string, error)
	Capture(ctx context.Context) error
	List() ([]models.ImageRecord, error)
	Latest() (*models.ImageRecord, error)
	Count() (int, error)
	Path(filename string) (string, error)
	Prune() (int, error)
}

type imageService struct {
	store  repository.ImageRepository
	camera clients.CameraClient
	cache  repository.CacheRepository
}

// NewImageService builds the image service. cache may be nil.
func NewImageService(store repository.ImageRepository, camera clients.CameraClient, cache repository.CacheRepository) ImageService {
	return &imageService{
		store:  store,
		camera: camera,
		cache:  cache,
	}
}

func (s *imageService) Upload(ctx context.Context, data []byte) (string, error) {
	filename, err := s.store.Save(data)
	if err != nil {
		metrics.PersistFailures.WithLabelValues("images").Inc()
		return "", err
	}
	metrics.ImagesStored.Inc()

	s.count(ctx, repository.CounterImagesReceived)
	return filename, nil
}

func (s *imageService) Capture(ctx context.Context) error {
	err := s.camera.TriggerCapture(ctx)
	metrics.RecordDeviceRequest("capture", err)
	if err != nil {
		return err
	}

	s.count(ctx, repository.CounterCaptures)
	return nil
}

func (s *imageService) count(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Increment(ctx, key); err != nil {
		log.Printf("Failed to update %s: %v", key, err)
	}
}

func (s *imageService) List() ([]models.ImageRecord, error) {
	return s.store.List()
}

func (s *imageService) Latest() (*models.ImageRecord, error) {
	return s.store.Latest()
}

func (s *imageService) Count() (int, error) {
	return s.store.Count()
}

func (s *imageService) Path(filename string) (string, error) {
	return s.store.Path(filename)
}

func (s *imageService) Prune() (int, error) {
	deleted, err := s.store.EvictOldest()
	metrics.ImagesEvicted.Add(float64(deleted))
	return deleted, err
}
