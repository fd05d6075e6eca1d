package export

import (
	"regexp"

	"github.com/heimdex/bsi-exporter/internal/scene"
)

var bulkNamePattern = regexp.MustCompile(`^[a-z_0-9]*$`)

// ShouldExport reports whether a clip is picked up by a bulk export: its name
// may only contain lowercase letters, digits and underscores.
func ShouldExport(name string) bool {
	return bulkNamePattern.MatchString(name)
}

// Eligible splits clips into those a bulk export includes and the names of
// those it skips.
func Eligible(clips []scene.Clip) (eligible []scene.Clip, skipped []string) {
	for _, c := range clips {
		if ShouldExport(c.Name()) {
			eligible = append(eligible, c)
		} else {
			skipped = append(skipped, c.Name())
		}
	}
	return eligible, skipped
}

// ResolveClips looks up clips by name, keeping the requested order. Names that
// match no clip are returned in unresolved.
func ResolveClips(s scene.Scene, names []string) (clips []scene.Clip, unresolved []string) {
	for _, name := range names {
		if c := scene.FindClip(s, name); c != nil {
			clips = append(clips, c)
		} else {
			unresolved = append(unresolved, name)
		}
	}
	return clips, unresolved
}
