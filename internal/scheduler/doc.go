// Package scheduler walks the resolved execution levels of one run. Levels
// are strictly sequential; inside a level, stages run concurrently under the
// pipeline's maxConcurrency cap. Results always come back in canonical
// order (level-major, stage-list order within a level) no matter which
// goroutine finishes first.
package scheduler
