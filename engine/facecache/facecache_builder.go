package facecache

import "log"

// FaceCacheOption is a functional option for configuring a FaceCache.
type FaceCacheOption func(*faceCache)

// WithWorkers sets the number of pool goroutines used to build large batches of faces.
//
// Parameters:
//   - workers: worker count (values below 1 are raised to 1)
//
// Returns:
//   - FaceCacheOption: functional option to set the worker count
func WithWorkers(workers int) FaceCacheOption {
	return func(c *faceCache) {
		c.workers = max(workers, 1)
	}
}

// WithParallelThreshold sets how many faces one ensure call must build before the pool is used.
//
// Parameters:
//   - threshold: minimum batch size for parallel builds
//
// Returns:
//   - FaceCacheOption: functional option to set the threshold
func WithParallelThreshold(threshold int) FaceCacheOption {
	return func(c *faceCache) {
		c.parallelThreshold = max(threshold, 1)
	}
}

// WithLogger logs every face build to logger.
//
// Parameters:
//   - logger: destination logger, nil disables build logging
//
// Returns:
//   - FaceCacheOption: functional option to set the logger
func WithLogger(logger *log.Logger) FaceCacheOption {
	return func(c *faceCache) {
		c.logger = logger
	}
}

// WithBuildCallback registers a function called, in build order, for every face that gets built.
// It runs while the cache is locked and must not call back into the cache.
//
// Parameters:
//   - callback: receives the index of the face just built
//
// Returns:
//   - FaceCacheOption: functional option to set the callback
func WithBuildCallback(callback func(index int)) FaceCacheOption {
	return func(c *faceCache) {
		c.onBuild = callback
	}
}
