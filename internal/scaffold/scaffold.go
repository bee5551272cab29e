// Package scaffold creates plugin projects from bundled templates.
//
// A scaffold is all-or-nothing: once the project directory has been created,
// any failure removes the whole tree before the error is returned.
package scaffold

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"pluginbuilder/internal/common/errs"
	"pluginbuilder/internal/common/fsutil"
)

// BuildConfigName is the generated build configuration file.
const BuildConfigName = "CMakeLists.txt"

// SourceDirName holds the plugin sources inside a project.
const SourceDirName = "source"

// Namespace reports names already taken in the host graph.
type Namespace interface {
	NameInUse(name string) bool
}

// ProjectDescriptor describes a scaffolded project. It does not change after
// creation.
type ProjectDescriptor struct {
	Name        string       `json:"name"`
	Kind        TemplateKind `json:"kind,omitempty"`
	OpType      OpType       `json:"op_type"`
	Dir         string       `json:"dir"`
	SourceDir   string       `json:"source_dir"`
	BuildConfig string       `json:"build_config"`
}

// Describe returns the descriptor for name under projectsDir without touching disk.
func Describe(projectsDir, name string, kind TemplateKind, op OpType) ProjectDescriptor {
	dir := filepath.Join(projectsDir, name)
	return ProjectDescriptor{
		Name:        name,
		Kind:        kind,
		OpType:      op,
		Dir:         dir,
		SourceDir:   filepath.Join(dir, SourceDirName),
		BuildConfig: filepath.Join(dir, BuildConfigName),
	}
}

// Options configures a Scaffolder.
type Options struct {
	ProjectsDir  string
	TemplatesDir string
	Author       string
	Email        string
	Namespace    Namespace
	Logger       zerolog.Logger
}

// Scaffolder renders templates into new project directories.
type Scaffolder struct {
	opts Options
	// writeFile is swapped in tests to force failures midway.
	writeFile func(name string, data []byte, perm os.FileMode) error
}

// New returns a Scaffolder.
func New(opts Options) *Scaffolder {
	return &Scaffolder{opts: opts, writeFile: os.WriteFile}
}

// ValidFileName rejects plugin names that are empty or would leave the
// projects and plugins roots once joined to them.
func ValidFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.ErrUserInput("plugin name is empty")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\:*?"<>|`) || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return errs.ErrUserInput("plugin name %q is not a valid file name", name)
	}
	return nil
}

// ValidateName checks a plugin name against the host namespace.
func (s *Scaffolder) ValidateName(name string) error {
	if err := ValidFileName(name); err != nil {
		return err
	}
	if s.opts.Namespace != nil && s.opts.Namespace.NameInUse(name) {
		return errs.ErrUserInput("operator %s already exists", name)
	}
	return nil
}

// Scaffold creates <projects>/<name> from the template for kind.
func (s *Scaffolder) Scaffold(name string, kind TemplateKind) (ProjectDescriptor, error) {
	if err := s.ValidateName(name); err != nil {
		return ProjectDescriptor{}, err
	}
	if kind.OpType() == "" {
		return ProjectDescriptor{}, errs.ErrUserInput("unknown plugin template %q", kind)
	}
	desc := Describe(s.opts.ProjectsDir, name, kind, kind.OpType())
	if err := os.MkdirAll(s.opts.ProjectsDir, 0o755); err != nil {
		return ProjectDescriptor{}, fmt.Errorf("create projects dir: %w", err)
	}
	if fsutil.PathExists(desc.Dir) {
		return ProjectDescriptor{}, errs.ErrAlreadyExists(desc.Dir)
	}
	templateSrc := filepath.Join(s.opts.TemplatesDir, string(kind), SourceDirName)
	if !fsutil.IsDir(templateSrc) {
		return ProjectDescriptor{}, errs.ErrMissingDirectory(templateSrc)
	}

	if err := os.Mkdir(desc.Dir, 0o755); err != nil {
		return ProjectDescriptor{}, fmt.Errorf("create project dir: %w", err)
	}
	if err := s.populate(desc, templateSrc); err != nil {
		if rmErr := os.RemoveAll(desc.Dir); rmErr != nil {
			s.opts.Logger.Error().Err(rmErr).Str("dir", desc.Dir).Msg("scaffold rollback failed")
		}
		s.opts.Logger.Warn().Err(err).Str("plugin", name).Msg("scaffold rolled back")
		return ProjectDescriptor{}, &errs.PartialFailure{Path: desc.Dir, Err: err}
	}
	s.opts.Logger.Info().Str("plugin", name).Str("template", string(kind)).Str("dir", desc.Dir).Msg("scaffold created")
	return desc, nil
}

func (s *Scaffolder) populate(desc ProjectDescriptor, templateSrc string) error {
	if err := os.Mkdir(desc.SourceDir, 0o755); err != nil {
		return err
	}
	placeholder := desc.Kind.Placeholder()
	mainSource := placeholder + ".cpp"
	err := filepath.WalkDir(templateSrc, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(templateSrc, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(desc.SourceDir, strings.ReplaceAll(rel, placeholder, desc.Name))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		text := strings.ReplaceAll(string(b), placeholder, desc.Name)
		if d.Name() == mainSource {
			text = s.stampOperatorInfo(text, desc.Name)
		}
		return s.writeFile(target, []byte(text), 0o644)
	})
	if err != nil {
		return err
	}
	return s.writeFile(desc.BuildConfig, []byte(AssembleBuildConfig(desc.Kind, desc.Name)), 0o644)
}

// stampOperatorInfo fills the operator metadata markers in the main source file.
func (s *Scaffolder) stampOperatorInfo(text, name string) string {
	r := strings.NewReplacer(
		"#__OP_TYPE__#", capitalize(name),
		"#__OP_LABEL__#", name,
		"#__OP_ICON__#", iconLabel(name),
		"#__OP_AUTHOR__#", s.opts.Author,
		"#__OP_EMAIL__#", s.opts.Email,
	)
	return r.Replace(text)
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	rs := []rune(strings.ToLower(s))
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}

// iconLabel is the first three runes of name, upper-cased.
func iconLabel(s string) string {
	rs := []rune(s)
	if len(rs) > 3 {
		rs = rs[:3]
	}
	return strings.ToUpper(string(rs))
}
