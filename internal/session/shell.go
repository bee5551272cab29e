package session

import (
	"runtime"
	"strings"
)

// Shell describes the interactive shell a session drives and the lines that
// prepare its environment before any build command.
type Shell struct {
	Program string
	Args    []string
	Prelude []string
}

// Toolchain locates the compiler environment for the default shell.
type Toolchain struct {
	// VCVarsall is the MSVC environment script, used on Windows.
	VCVarsall string
	// EnvScript is sourced on Unix when set.
	EnvScript string
	// NinjaDir is appended to PATH.
	NinjaDir string
}

// DefaultShell returns the platform shell with a toolchain prelude.
// program overrides the shell binary when non-empty.
func DefaultShell(goos, program string, tc Toolchain) Shell {
	if goos == "" {
		goos = runtime.GOOS
	}
	if goos == "windows" {
		sh := Shell{Program: "cmd.exe", Args: []string{"/Q", "/K"}}
		if program != "" {
			sh.Program = program
		}
		if tc.VCVarsall != "" {
			sh.Prelude = append(sh.Prelude, `call "`+tc.VCVarsall+`" x64`)
		}
		if tc.NinjaDir != "" {
			sh.Prelude = append(sh.Prelude, `set "PATH=%PATH%;`+tc.NinjaDir+`"`)
		}
		return sh
	}
	sh := Shell{Program: "/bin/sh", Args: []string{"-s"}}
	if program != "" {
		sh.Program = program
	}
	if tc.EnvScript != "" {
		sh.Prelude = append(sh.Prelude, ". "+shellQuote(tc.EnvScript))
	}
	if tc.NinjaDir != "" {
		sh.Prelude = append(sh.Prelude, `export PATH="$PATH":`+shellQuote(tc.NinjaDir))
	}
	return sh
}

// shellQuote wraps s in single quotes for POSIX shells.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
