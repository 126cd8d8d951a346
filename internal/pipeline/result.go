package pipeline

import "time"

// Status is the terminal state of a single stage execution.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// RunStatus is the terminal state of a whole pipeline run.
type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunPartial RunStatus = "partial"
	RunFailed  RunStatus = "failed"
)

// Execution is the output record for one stage. It is created once by the
// scheduler and never mutated afterwards. Duration is in milliseconds;
// skipped stages have a zero duration and no metrics.
type Execution struct {
	ID       string        `json:"id"`
	Status   Status        `json:"status"`
	Logs     []string      `json:"logs"`
	Duration float64       `json:"duration"`
	Metrics  *StageMetrics `json:"metrics,omitempty"`
	Errors   []ErrorInfo   `json:"errors,omitempty"`
}

// StageMetrics holds the synthetic resource usage of one executed stage.
type StageMetrics struct {
	CPUUsage    float64 `json:"cpuUsage"`
	MemoryUsage float64 `json:"memoryUsage"`
	NetworkIO   float64 `json:"networkIO"`
	DiskIO      float64 `json:"diskIO"`
	Duration    float64 `json:"duration"`
}

// ErrorInfo describes one failure attached to a stage execution.
type ErrorInfo struct {
	Type        string            `json:"type"`
	Message     string            `json:"message"`
	Timestamp   time.Time         `json:"timestamp"`
	Recoverable bool              `json:"recoverable"`
	Context     map[string]string `json:"context,omitempty"`
}

// Artifact is a synthetic named output registered by a stage, for example a
// simulated container image produced by a docker-build stage.
type Artifact struct {
	Name      string            `json:"name"`
	Type      string            `json:"type"`
	Stage     string            `json:"stage"`
	CreatedAt time.Time         `json:"createdAt"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// ResourceUtilization aggregates CPU and memory figures across the executed
// stages of one run.
type ResourceUtilization struct {
	AvgCPU     float64 `json:"avgCpu"`
	PeakCPU    float64 `json:"peakCpu"`
	AvgMemory  float64 `json:"avgMemory"`
	PeakMemory float64 `json:"peakMemory"`
}

// PipelineMetrics is the per-run aggregate computed after all levels finish.
type PipelineMetrics struct {
	TotalDuration        float64             `json:"totalDuration"`
	StageCount           int                 `json:"stageCount"`
	SuccessCount         int                 `json:"successCount"`
	FailureCount         int                 `json:"failureCount"`
	SkippedCount         int                 `json:"skippedCount"`
	AverageStageDuration float64             `json:"averageStageDuration"`
	BottleneckStage      string              `json:"bottleneckStage"`
	ResourceUtilization  ResourceUtilization `json:"resourceUtilization"`
}

// Result is the complete outcome of one ExecutePipeline call. The Stages
// slice is in canonical order: level-major, original stage-list order within
// a level.
type Result struct {
	ID          string          `json:"id"`
	PipelineID  string          `json:"pipelineId"`
	ExecutionID string          `json:"executionId"`
	StartTime   time.Time       `json:"startTime"`
	EndTime     time.Time       `json:"endTime"`
	Status      RunStatus       `json:"status"`
	Stages      []Execution     `json:"stages"`
	Metrics     PipelineMetrics `json:"metrics"`
	Artifacts   []Artifact      `json:"artifacts"`
	Config      *Config         `json:"config,omitempty"`
	Logs        []string        `json:"logs"`
}
