// Package metrics reduces the per-stage execution records of a run into the
// pipeline-level summary. Pure computation, no state.
package metrics

import "github.com/codeflow-sentinel/pipesim/internal/pipeline"

// Aggregate computes the run summary. Skipped stages count toward
// StageCount and SkippedCount but contribute zero duration and no resource
// figures; an all-skipped run yields zeros, not an error. The bottleneck is
// the largest-duration execution, first occurrence winning ties.
func Aggregate(execs []pipeline.Execution) pipeline.PipelineMetrics {
	m := pipeline.PipelineMetrics{StageCount: len(execs)}

	var (
		bottleneck float64 = -1
		measured   int
		sumCPU     float64
		sumMemory  float64
	)

	for _, exec := range execs {
		switch exec.Status {
		case pipeline.StatusSuccess:
			m.SuccessCount++
		case pipeline.StatusFailed:
			m.FailureCount++
		case pipeline.StatusSkipped:
			m.SkippedCount++
		}

		m.TotalDuration += exec.Duration
		if exec.Duration > bottleneck {
			bottleneck = exec.Duration
			m.BottleneckStage = exec.ID
		}

		if exec.Metrics == nil {
			continue
		}
		measured++
		sumCPU += exec.Metrics.CPUUsage
		sumMemory += exec.Metrics.MemoryUsage
		if exec.Metrics.CPUUsage > m.ResourceUtilization.PeakCPU {
			m.ResourceUtilization.PeakCPU = exec.Metrics.CPUUsage
		}
		if exec.Metrics.MemoryUsage > m.ResourceUtilization.PeakMemory {
			m.ResourceUtilization.PeakMemory = exec.Metrics.MemoryUsage
		}
	}

	if len(execs) > 0 {
		m.AverageStageDuration = m.TotalDuration / float64(len(execs))
	}
	if measured > 0 {
		m.ResourceUtilization.AvgCPU = sumCPU / float64(measured)
		m.ResourceUtilization.AvgMemory = sumMemory / float64(measured)
	}

	return m
}
