package types

// Project is a plugin project found on disk.
type Project struct {
	// Plugin name; also the project directory name.
	// example: Foo
	Name string `json:"name" example:"Foo"`
	// Operator family recovered from the build configuration header.
	// example: CHOP
	OpType string `json:"op_type" example:"CHOP"`
	// Template the project was created from, when known.
	// example: BasicCHOP
	Template string `json:"template,omitempty" example:"BasicCHOP"`
	// Project root directory.
	// example: PluginProjects/Foo
	Dir string `json:"dir" example:"PluginProjects/Foo"`
}

// Template is a project template that can be scaffolded.
type Template struct {
	// example: CudaTOP
	Name string `json:"name" example:"CudaTOP"`
	// example: TOP
	OpType string `json:"op_type" example:"TOP"`
	// Build configuration block set: basic, cuda or python.
	// example: cuda
	Blocks string `json:"blocks" example:"cuda"`
}
