package entities

type ExecutionReport struct {
	ExitStatus   int    `json:"exit_status"`
	StdoutTail   string `json:"last_lines_stdout"`
	StderrTail   string `json:"last_lines_stderr"`
	WallTimeMs   int64  `json:"wall_time_ms"`
	LaunchFailed bool   `json:"launch_failed"`
	Signal       string `json:"signal,omitempty"`
}
