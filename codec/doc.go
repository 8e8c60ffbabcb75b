// Package codec implements the chaoscodec encode and decode pipelines.
//
// Encoding trains a quadratic autoregressive base model, replays it from the
// first two samples, fits a mirror model on the remaining residual, quantizes
// what both stages leave over and serializes everything into a payload:
//
//	enc, err := codec.NewEncoder(codec.WithScale(1e4))
//	if err != nil {
//	    return err
//	}
//	res, err := enc.Encode(ctx, samples)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Payload.Size(), res.Stats.Clip)
//
// Decoding replays the same stages from the payload:
//
//	dec, err := codec.NewDecoder()
//	out, err := dec.Decode(ctx, res.Payload)
//
// The encoder computes its residual and correction against the models as the
// decoder will read them back, after narrowing to the storage precision, so
// out.Signal is bit-identical to res.Reconstruction.
//
// # Mirror source
//
// With the default MirrorFromReconstruction the mirror stage runs on the base
// reconstruction and a payload decodes on its own. MirrorFromSignal runs it on
// the original signal; the decoder then needs WithReferenceSignal and fails
// with errs.ErrReferenceRequired without it.
//
// # Thread Safety
//
// Encoder and Decoder are immutable after construction and safe for
// concurrent use.
package codec
