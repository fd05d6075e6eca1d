package rig

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// track holds one node's keys for one take, split per channel so a key may
// set any subset of channels.
type track struct {
	translate vecChannel
	rotate    quatChannel
	scale     vecChannel
}

type vecChannel struct {
	frames []int
	values []mgl64.Vec3
}

type quatChannel struct {
	frames []int
	values []mgl64.Quat
}

func newTrack(keys []KeySpec) (*track, error) {
	sorted := append([]KeySpec(nil), keys...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Frame < sorted[j].Frame })

	tr := &track{}
	for i, k := range sorted {
		if i > 0 && sorted[i-1].Frame == k.Frame {
			return nil, invalid("two keys at frame %d", k.Frame)
		}
		for what, v := range map[string][]float64{"translate": k.Translate, "rotate": k.Rotate, "scale": k.Scale} {
			if err := checkVec(fmt.Sprintf("key at frame %d %s", k.Frame, what), v); err != nil {
				return nil, err
			}
		}
		if k.Translate != nil {
			tr.translate.frames = append(tr.translate.frames, k.Frame)
			tr.translate.values = append(tr.translate.values, vec(k.Translate))
		}
		if k.Rotate != nil {
			tr.rotate.frames = append(tr.rotate.frames, k.Frame)
			tr.rotate.values = append(tr.rotate.values, euler(k.Rotate))
		}
		if k.Scale != nil {
			tr.scale.frames = append(tr.scale.frames, k.Frame)
			tr.scale.values = append(tr.scale.values, vec(k.Scale))
		}
	}
	return tr, nil
}

// sample evaluates the track at frame; channels without keys keep rest.
func (t *track) sample(frame int, rest pose) pose {
	return pose{
		translate: t.translate.sample(frame, rest.translate),
		rotate:    t.rotate.sample(frame, rest.rotate),
		scale:     t.scale.sample(frame, rest.scale),
	}
}

// segment finds the keys surrounding frame. Before the first and after the
// last key the boundary key holds.
func segment(frames []int, frame int) (i, j int, alpha float64) {
	n := len(frames)
	if frame <= frames[0] {
		return 0, 0, 0
	}
	if frame >= frames[n-1] {
		return n - 1, n - 1, 0
	}
	j = sort.SearchInts(frames, frame)
	if frames[j] == frame {
		return j, j, 0
	}
	i = j - 1
	alpha = float64(frame-frames[i]) / float64(frames[j]-frames[i])
	return i, j, alpha
}

func (c vecChannel) sample(frame int, rest mgl64.Vec3) mgl64.Vec3 {
	if len(c.frames) == 0 {
		return rest
	}
	i, j, alpha := segment(c.frames, frame)
	if i == j {
		return c.values[i]
	}
	return c.values[i].Add(c.values[j].Sub(c.values[i]).Mul(alpha))
}

func (c quatChannel) sample(frame int, rest mgl64.Quat) mgl64.Quat {
	if len(c.frames) == 0 {
		return rest
	}
	i, j, alpha := segment(c.frames, frame)
	if i == j {
		return c.values[i]
	}
	return mgl64.QuatSlerp(c.values[i], c.values[j], alpha)
}
