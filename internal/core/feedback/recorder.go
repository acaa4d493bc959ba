package feedback

// Recorder keeps every notification in arrival order.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Notify(e Event) { r.Events = append(r.Events, e) }

// Count returns how many notifications of kind k were recorded.
func (r *Recorder) Count(k Kind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// CountFor returns how many notifications of kind k concern projectile id.
func (r *Recorder) CountFor(id uint64, k Kind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == k && e.ProjectileID == id {
			n++
		}
	}
	return n
}

// Last returns the most recent notification of kind k.
func (r *Recorder) Last(k Kind) (Event, bool) {
	for i := len(r.Events) - 1; i >= 0; i-- {
		if r.Events[i].Kind == k {
			return r.Events[i], true
		}
	}
	return Event{}, false
}

func (r *Recorder) Reset() { r.Events = r.Events[:0] }
