package services

import (
	"context"
	"dallasdresses_server/repository"
	"runtime"
	"time"

	"github.com/MonkyMars/gecho"
)

var uptimeStart = time.Now()

type serverHealthStatus struct {
	Uptime       float64   `json:"uptime"`        // in seconds
	CurrentTime  time.Time `json:"current_time"`  // server current time
	ServiceAlive bool      `json:"service_alive"` // always true if service is running
	RamStats     *RamStats `json:"ram_stats"`
}

type RamStats struct {
	TotalMB     uint64 `json:"total_mb"`
	UsedMB      uint64 `json:"used_mb"`
	FreeMB      uint64 `json:"free_mb"`
	UsedPercent uint64 `json:"used_percent"`
}

type storageHealthStatus struct {
	Driver         string         `json:"driver"`
	Connected      bool           `json:"connected"`
	LastChecked    time.Time      `json:"last_checked"`
	ResponseTimeMs int64          `json:"response_time_ms"`
	Cache          map[string]any `json:"cache"`
}

type HealthService struct {
	logger *gecho.Logger
	driver string
	store  repository.Pinger
	cache  *CacheService
}

func NewHealthService(logger *gecho.Logger, driver string, store repository.Pinger, cache *CacheService) *HealthService {
	return &HealthService{
		logger: logger,
		driver: driver,
		store:  store,
		cache:  cache,
	}
}

func getRamStats() *RamStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	totalMB := m.Sys / 1024 / 1024
	usedMB := m.Alloc / 1024 / 1024
	freeMB := totalMB - usedMB
	usedPercent := uint64(0)
	if totalMB > 0 {
		usedPercent = (usedMB * 100) / totalMB
	}

	return &RamStats{
		TotalMB:     totalMB,
		UsedMB:      usedMB,
		FreeMB:      freeMB,
		UsedPercent: usedPercent,
	}
}

func (hs *HealthService) GetServerHealthStatus() serverHealthStatus {
	return serverHealthStatus{
		Uptime:       time.Since(uptimeStart).Seconds(),
		CurrentTime:  time.Now(),
		ServiceAlive: true,
		RamStats:     getRamStats(),
	}
}

func (hs *HealthService) GetStorageHealthStatus(ctx context.Context) (storageHealthStatus, error) {
	start := time.Now()
	err := hs.store.Ping(ctx)

	status := storageHealthStatus{
		Driver:         hs.driver,
		Connected:      err == nil,
		LastChecked:    time.Now(),
		ResponseTimeMs: time.Since(start).Milliseconds(),
		Cache:          hs.cache.GetConnectionStats(),
	}

	if hs.cache.Enabled() {
		status.Cache["reachable"] = hs.cache.Ping(ctx) == nil
	}

	if err != nil {
		hs.logger.Error("Storage health check failed", gecho.Field("error", err), gecho.Field("driver", hs.driver))
	}

	return status, err
}
