package types

// CreateRequest is the body of POST /projects.
type CreateRequest struct {
	// Plugin name. Must not be used by another operator in the host.
	// example: Foo
	Name string `json:"name" example:"Foo"`
	// Template name; see GET /templates.
	// example: BasicCHOP
	Template string `json:"template" example:"BasicCHOP"`
}

// OpenRequest is the body of POST /open. An empty name clears the builder.
type OpenRequest struct {
	// example: Foo
	Name string `json:"name" example:"Foo"`
}

// CallbackRequest carries the new value for value-change callbacks.
type CallbackRequest struct {
	// New parameter value (plugin name or output mode). Ignored by pulse events.
	// example: console
	Value string `json:"value,omitempty" example:"console"`
}

// ProjectsResponse wraps GET /projects.
type ProjectsResponse struct {
	Projects []Project `json:"projects"`
}

// TemplatesResponse wraps GET /templates.
type TemplatesResponse struct {
	Templates []Template `json:"templates"`
}

// OutputLine is one captured line of build shell output.
type OutputLine struct {
	// Monotonic sequence number; gaps mean lines were dropped.
	// example: 42
	Seq uint64 `json:"seq" example:"42"`
	// example: [2/3] Building CXX object CMakeFiles/Foo.dir/source/Foo.cpp.o
	Text string `json:"text" example:"[2/3] Building CXX object CMakeFiles/Foo.dir/source/Foo.cpp.o"`
	// Capture time (unix milliseconds).
	// example: 1700000000000
	TimeUnixMs int64 `json:"time_unix_ms" example:"1700000000000"`
}

// OutputResponse is returned by GET /output. Reading drains the queue.
type OutputResponse struct {
	Lines []OutputLine `json:"lines"`
	// Lines discarded so far because the queue was full.
	// example: 0
	Dropped uint64 `json:"dropped" example:"0"`
}

// ActionResponse acknowledges a command. Results show up in GET /output.
type ActionResponse struct {
	// example: ok
	Status string `json:"status" example:"ok"`
	// Shell command sent, when the action sends one.
	// example: ninja -C build
	Command string `json:"command,omitempty" example:"ninja -C build"`
	// Path affected by file-level actions (reload, install).
	Path string `json:"path,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: plugin name is empty
	Error string `json:"error" example:"plugin name is empty"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// SessionStatus describes the build shell.
type SessionStatus struct {
	// idle, starting, running, exited or closing.
	// example: running
	State string `json:"state" example:"running"`
	// example: 3fa85f64-5717-4562-b3fc-2c963f66afa6
	ID string `json:"id,omitempty" example:"3fa85f64-5717-4562-b3fc-2c963f66afa6"`
	// example: 12345
	PID int `json:"pid,omitempty" example:"12345"`
	// Working directory; always the project root.
	WorkDir string `json:"work_dir,omitempty"`
	// Where output goes: queue or console.
	// example: queue
	OutputTo string `json:"output_to" example:"queue"`
	// Lines waiting in the output queue.
	QueueLen int    `json:"queue_len"`
	QueueCap int    `json:"queue_cap"`
	Dropped  uint64 `json:"dropped"`
	// Unix seconds the shell started.
	StartedAtUnix int64 `json:"started_at_unix,omitempty"`
}

// LoaderStatus is the desired state of the host plugin loader (GET /loader).
type LoaderStatus struct {
	// example: false
	Unloaded bool `json:"unloaded" example:"false"`
	// example: Plugins/Foo/Foo.dll
	PluginPath string `json:"plugin_path" example:"Plugins/Foo/Foo.dll"`
	// Operator family the loader node should be; empty when cleared.
	// example: CHOP
	OpType string `json:"op_type,omitempty" example:"CHOP"`
	// Incremented on every change so pollers can skip unchanged states.
	// example: 3
	Generation uint64 `json:"generation" example:"3"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Current project, if any.
	Project *Project      `json:"project,omitempty"`
	Session SessionStatus `json:"session"`
	// example: Release
	BuildType string `json:"build_type" example:"Release"`
	// Path of the build artifact for the current project.
	Artifact string `json:"artifact,omitempty"`
	// Whether the artifact exists right now.
	ArtifactExists bool `json:"artifact_exists"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	ServerTimeUnix int64 `json:"server_time_unix"`
}
