package service

import (
	"sync/atomic"
	"time"
)

type State struct {
	ready     atomic.Bool
	startedAt time.Time

	monitors     atomic.Int64 // активные позиции под наблюдением
	lastFillUnix atomic.Int64 // unix seconds
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) AddMonitors(delta int64) { s.monitors.Add(delta) }
func (s *State) Monitors() int64         { return s.monitors.Load() }

func (s *State) TouchFill(t time.Time) { s.lastFillUnix.Store(t.Unix()) }
func (s *State) LastFill() time.Time {
	u := s.lastFillUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
