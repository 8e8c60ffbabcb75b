// Command chaoscodec encodes raw float64 signals into compact chaoscodec
// container files, decodes them back and benchmarks the codec on logistic-map
// signals against general-purpose compressors.
//
// Raw signal files are consecutive little-endian IEEE 754 float64 values with
// no header. Settings come from a TOML configuration file (see
// `chaoscodec config init`) and can be overridden per invocation with flags.
package main
