package builder

import (
	"path/filepath"

	"pluginbuilder/internal/common/errs"
	"pluginbuilder/internal/common/fsutil"
)

// ArtifactPath is where the build places the current project's library.
func (b *Builder) ArtifactPath() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	desc, err := b.currentLocked()
	if err != nil {
		return "", err
	}
	return b.artifactPath(desc), nil
}

// Reload copies the freshly built library into the plugins root and points
// the host loader at it. It returns the loaded path.
func (b *Builder) Reload() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	desc, err := b.currentLocked()
	if err != nil {
		return "", err
	}
	target := b.pluginPath(desc.Name)
	if err := b.notifier.Reload(b.artifactPath(desc), target); err != nil {
		return "", err
	}
	b.publish("plugin_reloaded", desc.Name, map[string]any{"path": target})
	return target, nil
}

// Install copies the plugin directory into the host's user plugin folder.
// Both directories must exist and the plugin must not be installed yet.
func (b *Builder) Install() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	desc, err := b.currentLocked()
	if err != nil {
		return "", err
	}
	src := b.pluginDir(desc.Name)
	if !fsutil.IsDir(src) {
		installsTotal.WithLabelValues("error").Inc()
		return "", errs.ErrMissingDirectory(src)
	}
	installDir := b.cfg.Paths.InstallDir
	if !fsutil.IsDir(installDir) {
		installsTotal.WithLabelValues("error").Inc()
		return "", errs.ErrMissingDirectory(installDir)
	}
	dst := filepath.Join(installDir, desc.Name)
	if fsutil.PathExists(dst) {
		installsTotal.WithLabelValues("error").Inc()
		return "", errs.ErrAlreadyExists(dst)
	}
	if err := fsutil.CopyTree(src, dst); err != nil {
		installsTotal.WithLabelValues("error").Inc()
		return "", err
	}
	installsTotal.WithLabelValues("ok").Inc()
	b.log.Info().Str("plugin", desc.Name).Str("dir", dst).Msg("plugin installed")
	b.publish("plugin_installed", desc.Name, map[string]any{"dir": dst})
	return dst, nil
}
