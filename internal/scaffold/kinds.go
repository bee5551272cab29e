package scaffold

import (
	"fmt"
	"strings"

	"pluginbuilder/internal/common/errs"
)

// OpType is the host operator family a plugin is loaded into.
type OpType string

const (
	OpCHOP OpType = "CHOP"
	OpTOP  OpType = "TOP"
	OpDAT  OpType = "DAT"
	OpSOP  OpType = "SOP"
)

// ParseOpType validates a raw operator type tag.
func ParseOpType(s string) (OpType, error) {
	switch t := OpType(strings.ToUpper(strings.TrimSpace(s))); t {
	case OpCHOP, OpTOP, OpDAT, OpSOP:
		return t, nil
	default:
		return "", fmt.Errorf("unknown plugin type %q", s)
	}
}

// BlockSet selects which reusable CMake blocks a template needs.
type BlockSet int

const (
	BlocksBasic BlockSet = iota
	BlocksCUDA
	BlocksPython
)

func (b BlockSet) String() string {
	switch b {
	case BlocksCUDA:
		return "cuda"
	case BlocksPython:
		return "python"
	default:
		return "basic"
	}
}

// TemplateKind names one of the bundled plugin templates.
type TemplateKind string

const (
	BasicCHOP           TemplateKind = "BasicCHOP"
	CHOPWithPythonClass TemplateKind = "CHOPWithPythonClass"
	CPUMemoryTOP        TemplateKind = "CPUMemoryTOP"
	CudaTOP             TemplateKind = "CudaTOP"
	BasicDAT            TemplateKind = "BasicDAT"
	SimpleShapesSOP     TemplateKind = "SimpleShapesSOP"
)

// Kinds lists every supported template in display order.
func Kinds() []TemplateKind {
	return []TemplateKind{BasicCHOP, CHOPWithPythonClass, CPUMemoryTOP, CudaTOP, BasicDAT, SimpleShapesSOP}
}

// ParseKind resolves a template name, ignoring case.
func ParseKind(s string) (TemplateKind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", errs.ErrUserInput("unknown plugin template %q", s)
}

// OpType returns the operator family the template builds.
func (k TemplateKind) OpType() OpType {
	switch k {
	case BasicCHOP, CHOPWithPythonClass:
		return OpCHOP
	case CPUMemoryTOP, CudaTOP:
		return OpTOP
	case BasicDAT:
		return OpDAT
	case SimpleShapesSOP:
		return OpSOP
	default:
		return ""
	}
}

// Blocks returns the CMake block set for the template.
func (k TemplateKind) Blocks() BlockSet {
	switch k {
	case CudaTOP:
		return BlocksCUDA
	case CHOPWithPythonClass:
		return BlocksPython
	default:
		return BlocksBasic
	}
}

// Placeholder is the token replaced by the plugin name in template files.
// Every bundled template uses its own name.
func (k TemplateKind) Placeholder() string { return string(k) }
