package codec

import (
	"log/slog"
	"time"

	"github.com/arloliu/chaoscodec/container"
	"github.com/arloliu/chaoscodec/linear"
	"github.com/arloliu/chaoscodec/payload"
	"github.com/arloliu/chaoscodec/quantize"
)

// Timings records the wall-clock duration of each pipeline stage.
type Timings struct {
	Train       time.Duration
	Reconstruct time.Duration
	Mirror      time.Duration
	Quantize    time.Duration
	Serialize   time.Duration
	Total       time.Duration
}

// LogValue implements slog.LogValuer.
func (t Timings) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Duration("train", t.Train),
		slog.Duration("reconstruct", t.Reconstruct),
		slog.Duration("mirror", t.Mirror),
		slog.Duration("quantize", t.Quantize),
		slog.Duration("serialize", t.Serialize),
		slog.Duration("total", t.Total),
	)
}

// Stats summarizes one encode call.
type Stats struct {
	Samples       int
	Clip          quantize.Stats
	ModelBytes    int
	ResidualBytes int
	Timings       Timings
}

// Result is the output of Encoder.Encode.
type Result struct {
	// Payload is the encoded signal.
	Payload payload.Payload
	// Header describes the payload for container framing.
	Header container.Header
	// Base and Mirror are the full-precision fits.
	Base   linear.Result
	Mirror linear.Result
	// StoredBase and StoredMirror are the models as the decoder reads them.
	StoredBase   linear.Model
	StoredMirror linear.Model
	// Reconstruction is the signal the decoder will produce.
	Reconstruction []float64
	Stats          Stats
}

// MarshalContainer frames the payload as a container file.
func (r *Result) MarshalContainer() ([]byte, error) {
	return container.Marshal(r.Header, r.Payload)
}

// Decoded is the output of Decoder.Decode.
type Decoded struct {
	// Signal is the reconstructed signal.
	Signal []float64
	// Models are the decoded models and seeds.
	Models payload.Models
	// Delta is the decoded quantized correction.
	Delta   quantize.Delta
	Timings Timings
}
