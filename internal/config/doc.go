// Package config loads and validates the chaoscodec CLI configuration file.
//
// The file is TOML with three sections: [codec] mirrors the codec options,
// [logging] selects the log format and level, and [bench] parameterizes the
// synthetic logistic-map benchmark. Missing keys keep their defaults, so an
// empty or absent file is a valid configuration.
//
// Command code should obtain codec options through Config.CodecOptions rather
// than parsing the string fields itself.
package config
