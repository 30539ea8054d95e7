// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Package diagnostics is an optional introspection surface: the
// teacher ships its own goroutine/GC dashboard, so a running craftos
// process gets one too, alongside a small JSON endpoint reporting live
// supervisor counters (computers running, their ids, goroutine count).
// Neither is load-bearing for emulation itself; both are off unless a
// front-end asks for them.
package diagnostics

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/rs/cors"

	"github.com/block16/craftos-go/supervisor"
)

// Counters is the shape of the /diagnostics/counters response.
type Counters struct {
	ComputersRunning int   `json:"computers_running"`
	ComputerIDs      []int `json:"computer_ids"`
	Goroutines       int   `json:"goroutines"`
}

// Server runs the statsview dashboard and the counters endpoint.
type Server struct {
	sup *supervisor.Supervisor

	statsviewAddr string
	countersAddr  string

	mgr  *statsview.Manager
	http *http.Server
}

// New prepares a Server. statsviewAddr is where the goroutine/GC
// dashboard listens (e.g. "127.0.0.1:18066", statsview's own
// default); countersAddr is where the supervisor-counters JSON
// endpoint listens. Either may be empty to skip that surface.
func New(sup *supervisor.Supervisor, statsviewAddr, countersAddr string) *Server {
	return &Server{sup: sup, statsviewAddr: statsviewAddr, countersAddr: countersAddr}
}

// Start launches whichever surfaces were configured with a non-empty
// address. The statsview dashboard runs its own embedded HTTP server
// (no graceful stop in its current API; it lives for the process); the
// counters endpoint is this Server's own http.Server, behind a
// permissive CORS policy so a locally-served dev page can fetch it
// from a different origin.
func (s *Server) Start() error {
	if s.statsviewAddr != "" {
		s.mgr = statsview.New(viewer.WithAddr(s.statsviewAddr))
		go s.mgr.Start()
	}

	if s.countersAddr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/diagnostics/counters", s.counters)

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}).Handler(mux)

	s.http = &http.Server{Addr: s.countersAddr, Handler: handler}
	return s.http.ListenAndServe()
}

// CountersHandler returns the HTTP handler backing /diagnostics/counters.
func (s *Server) CountersHandler() http.HandlerFunc {
	return s.counters
}

func (s *Server) counters(w http.ResponseWriter, r *http.Request) {
	c := Counters{
		ComputersRunning: s.sup.Count(),
		ComputerIDs:      s.sup.IDs(),
		Goroutines:       runtime.NumGoroutine(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(c)
}

// Stop shuts down the counters endpoint's HTTP server. It does not
// attempt to stop the statsview dashboard, which has no exported stop
// hook; that server is expected to live for the process's lifetime.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
