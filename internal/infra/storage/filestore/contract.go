package filestore

import "time"

// Metrics метрики операций хранилища (*metrics.Metrics, nil-safe)
type Metrics interface {
	ObserveStoreOperation(backend, operation string, start time.Time)
}
