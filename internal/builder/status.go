package builder

import (
	"time"

	"pluginbuilder/internal/common/fsutil"
	"pluginbuilder/pkg/types"
)

// Status builds the response for /status.
func (b *Builder) Status() types.StatusResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	resp := types.StatusResponse{
		BuildType:      b.cfg.Build.BuildType,
		UptimeSeconds:  int64(now.Sub(b.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
		Session:        types.SessionStatus{State: "idle", OutputTo: b.outputTo},
	}
	if b.project != nil {
		resp.Project = &types.Project{
			Name:     b.project.Name,
			OpType:   string(b.project.OpType),
			Template: string(b.project.Kind),
			Dir:      b.project.Dir,
		}
		resp.Artifact = b.artifactPath(*b.project)
		resp.ArtifactExists = fsutil.PathExists(resp.Artifact)
	}
	if s := b.sess; s != nil {
		q := s.Output()
		resp.Session.State = string(s.State())
		resp.Session.ID = s.ID()
		resp.Session.PID = s.PID()
		resp.Session.WorkDir = s.WorkDir()
		resp.Session.QueueLen = q.Len()
		resp.Session.QueueCap = q.Cap()
		resp.Session.Dropped = q.Dropped()
		if t := s.StartedAt(); !t.IsZero() && s.PID() != 0 {
			resp.Session.StartedAtUnix = t.Unix()
		}
	}
	return resp
}

// LoaderStatus reports the loader state when the host records one.
func (b *Builder) LoaderStatus() (types.LoaderStatus, bool) {
	lh, ok := b.host.(*LocalHost)
	if !ok {
		return types.LoaderStatus{}, false
	}
	st := lh.LoaderState()
	return types.LoaderStatus{
		Unloaded:   st.Unloaded,
		PluginPath: st.PluginPath,
		OpType:     st.OpType,
		Generation: st.Generation,
	}, true
}

// Ready reports whether projects can be scaffolded: the templates are present.
func (b *Builder) Ready() bool {
	return fsutil.IsDir(b.cfg.Paths.TemplatesDir)
}
