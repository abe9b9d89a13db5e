package pipeline

import "sync"

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// Recorder keeps every event in arrival order.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) OnEvent(evt Event) {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Last returns the latest status seen per file and stage.
func (r *Recorder) Last() map[string]map[Stage]Status {
	out := make(map[string]map[Stage]Status)
	for _, e := range r.Events() {
		m := out[e.File]
		if m == nil {
			m = make(map[Stage]Status)
			out[e.File] = m
		}
		m[e.Stage] = e.Status
	}
	return out
}
