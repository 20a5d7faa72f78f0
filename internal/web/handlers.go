package web

import (
	"errors"
	"net/http"
	"strconv"

	"portdash/internal/control"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	services, err := s.snapshot(r.Context())
	if err != nil {
		s.logger.Error("snapshot failed", "err", err)
		http.Error(w, "service discovery failed", http.StatusInternalServerError)
		return
	}

	data := pageData{
		Host:     requestHost(r),
		External: s.external,
		Controls: !s.readOnly,
		Services: services,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("render failed", "err", err)
	}
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	pid, ok := pathPID(w, r)
	if !ok {
		return
	}
	if err := s.control.Stop(pid); err != nil {
		s.logger.Warn("stop failed", "pid", pid, "err", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	pid, ok := pathPID(w, r)
	if !ok {
		return
	}

	if err := s.control.StopAndWait(r.Context(), pid, s.stopWait); err != nil {
		// The old process lingering must not block the relaunch.
		if errors.Is(err, control.ErrStopTimeout) {
			s.logger.Warn("process still running after stop", "pid", pid)
		} else {
			s.logger.Warn("stop failed", "pid", pid, "err", err)
		}
	}

	if cmd := r.FormValue("cmd"); cmd != "" {
		if err := s.launch(cmd); err != nil {
			s.logger.Error("relaunch failed", "pid", pid, "err", err)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	if path := r.FormValue("path"); path != "" {
		if err := s.launch(path); err != nil {
			s.logger.Error("launch failed", "cmd", path, "err", err)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func pathPID(w http.ResponseWriter, r *http.Request) (int32, bool) {
	pid, err := strconv.ParseInt(r.PathValue("pid"), 10, 32)
	if err != nil || pid <= 0 {
		http.Error(w, "invalid pid", http.StatusBadRequest)
		return 0, false
	}
	return int32(pid), true
}
