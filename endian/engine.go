// Package endian provides the byte order abstraction used by chaoscodec records.
//
// All payload records and container headers are written little-endian. The
// EndianEngine interface combines binary.ByteOrder and binary.AppendByteOrder so
// serializers can either patch fixed offsets or append to a growing buffer with
// the same value:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint16(buf, uint16(q))
//	scale := math.Float64frombits(engine.Uint64(rec[0:8]))
//
// # Thread Safety
//
// The returned engines are the immutable standard library singletons and are
// safe for concurrent use.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine, the byte order of
// every chaoscodec record.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// IsNativeLittleEndian reports whether the host stores integers little-endian.
func IsNativeLittleEndian() bool {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 0x0102)

	return probe[0] == 0x02
}

// CompareNativeEndian reports whether engine matches the host byte order.
func CompareNativeEndian(engine EndianEngine) bool {
	if IsNativeLittleEndian() {
		return engine == binary.LittleEndian
	}

	return engine == binary.BigEndian
}
