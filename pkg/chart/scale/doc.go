// Package scale maps chart data onto pixel space.
//
// A [Linear] scale interpolates between a fixed [Domain] and a mutable
// [Range]. The range is mutable because chart layout happens in two passes:
// axes are drawn against a provisional range, measured, and the range is
// then shrunk to leave room for the axis labels.
//
//	x := scale.NewLinear(scale.Domain{Min: 0, Max: 100}, scale.Range{R0: 0, R1: 500})
//	x.Value(50)   // 250
//	x.Ticks(10)   // [0 10 20 ... 100]
//	x.SetRange(scale.Range{R0: 0, R1: 470})
//
// Tick generation follows the familiar 1-2-5 scheme: [Ticks] picks a step of
// 1, 2 or 5 times a power of ten that yields roughly the requested number of
// ticks, and [TickFormat] prints them with a matching fixed precision.
package scale
