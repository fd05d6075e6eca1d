package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/heimdex/bsi-exporter/internal/anim"
	"github.com/heimdex/bsi-exporter/internal/transform"
)

const (
	// DefaultSampleRate is the samples-per-second assumed when writing times.
	// It is not derived from the clip; source clips must be authored at 30 Hz.
	DefaultSampleRate = 30.0

	// DefaultTranslationScale converts centimeters to meters.
	DefaultTranslationScale = 0.01

	// Stride is the declared byte size of one sample (16 floats x 4 bytes).
	// It is written literally regardless of the value width in the file.
	Stride = 64

	// FileExtension of written artifacts.
	FileExtension = ".bsi"
)

// EncodeOptions controls the numeric conventions of the written stream.
type EncodeOptions struct {
	SampleRate       float64
	TranslationScale float64
}

// DefaultEncodeOptions returns the format's compatibility constants.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		SampleRate:       DefaultSampleRate,
		TranslationScale: DefaultTranslationScale,
	}
}

func (o EncodeOptions) withDefaults() EncodeOptions {
	if o.SampleRate <= 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.TranslationScale == 0 {
		o.TranslationScale = DefaultTranslationScale
	}
	return o
}

// WriteBSI encodes one matrix stream per node. names[i] labels column i of
// every snapshot in table.
func WriteBSI(w io.Writer, names []string, table *anim.Table, opts EncodeOptions) error {
	opts = opts.withDefaults()
	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, "animations = [\n")
	for i, name := range names {
		writeNode(bw, name, table.Track(i), table.Frames, opts)
	}
	fmt.Fprint(bw, "]\n")

	return bw.Flush()
}

func writeNode(w *bufio.Writer, name string, track []transform.Matrix, frames []int, opts EncodeOptions) {
	fmt.Fprint(w, "    {\n")
	fmt.Fprintf(w, "        node = \"%s\"\n", name)
	fmt.Fprint(w, "        parameter = \"matrix\"\n")
	fmt.Fprint(w, "        stream = {\n")
	fmt.Fprint(w, "            channels = [{ index = 0 name = \"local_tm\" type = \"CT_MATRIX4x4\" }] \n")
	fmt.Fprint(w, "            data = [ ")
	writeData(w, track, opts.TranslationScale)
	fmt.Fprint(w, "]\n")
	fmt.Fprintf(w, "            size = %d\n", len(track))
	fmt.Fprintf(w, "            stride = %d\n", Stride)
	fmt.Fprint(w, "        }\n")
	fmt.Fprint(w, "        times = [ ")
	writeTimes(w, frames, opts.SampleRate)
	fmt.Fprint(w, "]\n")
	fmt.Fprint(w, "    }\n")
}

func writeData(w *bufio.Writer, track []transform.Matrix, scale float64) {
	for _, m := range track {
		fmt.Fprint(w, "\n                ")
		fmt.Fprintf(w, "%f %f %f %f ", m[0], m[1], m[2], m[3])
		fmt.Fprintf(w, "%f %f %f %f ", m[4], m[5], m[6], m[7])
		fmt.Fprintf(w, "%f %f %f %f ", m[8], m[9], m[10], m[11])
		fmt.Fprintf(w, "  %f %f %f %f ", m[12]*scale, m[13]*scale, m[14]*scale, m[15])
	}
}

func writeTimes(w *bufio.Writer, frames []int, rate float64) {
	for _, f := range frames {
		fmt.Fprintf(w, "%f ", float64(f)/rate)
	}
}
