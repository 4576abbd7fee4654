package cache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/suchimauz/medical-calendar-api/internal/config"
	"github.com/suchimauz/medical-calendar-api/internal/core/domain"
	"github.com/suchimauz/medical-calendar-api/internal/core/ports/out"
)

// slotsCache - списки слотов по ключу рабочего окна. Окон единицы,
// поэтому обычная map, а не LRU
type slotsCache struct {
	entries map[string][]domain.TimeOfDay
}

type positionsCache struct {
	cache *lru.Cache[string, domain.AppointmentPosition]
}

type daysCache struct {
	cache *lru.Cache[string, []domain.Appointment]
}

type CacheAdapter struct {
	slotsCache     *slotsCache
	positionsCache *positionsCache
	daysCache      *daysCache
	mu             sync.RWMutex
	logger         out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	lruPositions, err := lru.New[string, domain.AppointmentPosition](cfg.Cache.PositionsSize)
	if err != nil {
		logger.Error("cache.positions.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.PositionsSize,
		})
		return nil, err
	}

	lruDays, err := lru.New[string, []domain.Appointment](cfg.Cache.DaysSize)
	if err != nil {
		logger.Error("cache.days.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.DaysSize,
		})
		return nil, err
	}

	return &CacheAdapter{
		slotsCache:     &slotsCache{entries: make(map[string][]domain.TimeOfDay)},
		positionsCache: &positionsCache{cache: lruPositions},
		daysCache:      &daysCache{cache: lruDays},
		logger:         logger.WithModule("CacheAdapter"),
	}, nil
}

// Кэширование списков слотов

func (c *CacheAdapter) GetSlots(ctx context.Context, window domain.WorkingWindow) ([]domain.TimeOfDay, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	slots, exists := c.slotsCache.entries[window.Key()]
	if !exists {
		c.logger.Debug("cache.slots.get.miss", out.LogFields{
			"window": window.Key(),
		})
		return nil, false
	}

	c.logger.Debug("cache.slots.get.hit", out.LogFields{
		"window":     window.Key(),
		"slotsCount": len(slots),
	})
	return slots, true
}

func (c *CacheAdapter) StoreSlots(ctx context.Context, window domain.WorkingWindow, slots []domain.TimeOfDay) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(slots) == 0 {
		return
	}

	c.logger.Debug("cache.slots.store", out.LogFields{
		"window":     window.Key(),
		"slotsCount": len(slots),
	})

	c.slotsCache.entries[window.Key()] = slots
}

// Кэширование вычисленных позиций, ключ - интервал записи

func (c *CacheAdapter) GetPosition(ctx context.Context, interval domain.Interval) (domain.AppointmentPosition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	position, exists := c.positionsCache.cache.Get(interval.Key())
	if !exists {
		return domain.AppointmentPosition{}, false
	}

	return position, true
}

func (c *CacheAdapter) StorePosition(ctx context.Context, interval domain.Interval, position domain.AppointmentPosition) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.positionsCache.cache.Add(interval.Key(), position)
}

// InvalidatePositions сбрасывает все позиции, вызывается при смене
// пиксельных констант сетки
func (c *CacheAdapter) InvalidatePositions(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.positions.invalidate_all", out.LogFields{})
	c.positionsCache.cache.Purge()
}

// Кэширование записей дня

func (c *CacheAdapter) GetDayAppointments(ctx context.Context, date string) ([]domain.Appointment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	appointments, exists := c.daysCache.cache.Get(date)
	if !exists {
		c.logger.Debug("cache.days.get.miss", out.LogFields{
			"date": date,
		})
		return nil, false
	}

	c.logger.Debug("cache.days.get.hit", out.LogFields{
		"date":  date,
		"count": len(appointments),
	})
	return appointments, true
}

func (c *CacheAdapter) StoreDayAppointments(ctx context.Context, date string, appointments []domain.Appointment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.days.store", out.LogFields{
		"date":  date,
		"count": len(appointments),
	})

	c.daysCache.cache.Add(date, appointments)
}

func (c *CacheAdapter) InvalidateDay(ctx context.Context, date string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.days.invalidate", out.LogFields{
		"date": date,
	})
	c.daysCache.cache.Remove(date)
}

func (c *CacheAdapter) InvalidateAllDays(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.days.invalidate_all", out.LogFields{})
	c.daysCache.cache.Purge()
}
