package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/accident_response/internal/device"
	"github.com/shenikar/accident_response/internal/models"
)

const (
	permissionsKey = "location:permissions"
	positionsKey   = "location:positions"
)

// DeviceLocationRepository хранит разрешения на геолокацию и последние координаты устройств в Redis
type DeviceLocationRepository struct {
	redisClient *redis.Client
}

func NewDeviceLocationRepository(redisClient *redis.Client) *DeviceLocationRepository {
	return &DeviceLocationRepository{
		redisClient: redisClient,
	}
}

// RequestPermission проверяет, выдало ли устройство разрешение на геолокацию
func (r *DeviceLocationRepository) RequestPermission(ctx context.Context, deviceID string) (bool, error) {
	granted, err := r.redisClient.SIsMember(ctx, permissionsKey, deviceID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check location permission: %w", err)
	}
	return granted, nil
}

// CurrentPosition возвращает последние присланные устройством координаты
func (r *DeviceLocationRepository) CurrentPosition(ctx context.Context, deviceID string) (*models.GeoPoint, error) {
	positions, err := r.redisClient.GeoPos(ctx, positionsKey, deviceID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get device position: %w", err)
	}
	if len(positions) == 0 || positions[0] == nil {
		return nil, fmt.Errorf("device %s: %w", deviceID, device.ErrPositionUnknown)
	}
	return &models.GeoPoint{
		Latitude:  positions[0].Latitude,
		Longitude: positions[0].Longitude,
	}, nil
}

// SaveLocation сохраняет разрешение и координаты устройства.
// При отзыве разрешения координаты удаляются.
func (r *DeviceLocationRepository) SaveLocation(ctx context.Context, deviceID string, granted bool, point *models.GeoPoint) error {
	_, err := r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if !granted {
			pipe.SRem(ctx, permissionsKey, deviceID)
			pipe.ZRem(ctx, positionsKey, deviceID)
			return nil
		}
		pipe.SAdd(ctx, permissionsKey, deviceID)
		if point != nil {
			pipe.GeoAdd(ctx, positionsKey, &redis.GeoLocation{
				Name:      deviceID,
				Longitude: point.Longitude,
				Latitude:  point.Latitude,
			})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save device location: %w", err)
	}
	return nil
}
