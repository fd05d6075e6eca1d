package export

// ProgressSink receives the overall completion of an export run, in [0, 1].
type ProgressSink interface {
	Progress(clip string, fraction float64)
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(clip string, fraction float64)

func (f ProgressFunc) Progress(clip string, fraction float64) {
	f(clip, fraction)
}

// tracker computes completed_clips/total_clips +
// completed_frames/(total_frames*total_clips).
type tracker struct {
	sink   ProgressSink
	clips  int
	clip   int
	frames int
	frame  int
	name   string
}

func newTracker(sink ProgressSink, clips int) *tracker {
	if clips < 1 {
		clips = 1
	}
	return &tracker{sink: sink, clips: clips, frames: 1}
}

func (t *tracker) startClip(name string, frames int) {
	if frames < 1 {
		frames = 1
	}
	t.name = name
	t.frames = frames
	t.frame = 0
	t.report()
}

func (t *tracker) nextFrame() {
	t.frame++
	t.report()
}

func (t *tracker) nextClip() {
	t.clip++
	t.frame = 0
	t.report()
}

func (t *tracker) fraction() float64 {
	return float64(t.clip)/float64(t.clips) + float64(t.frame)/float64(t.frames)/float64(t.clips)
}

func (t *tracker) report() {
	if t.sink != nil {
		t.sink.Progress(t.name, t.fraction())
	}
}
