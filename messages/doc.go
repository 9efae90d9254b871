// Package messages defines the immutable unit of data that flows through a
// plexus graph.
//
// A Message is a value with three views of the same payload:
//   - Text: the canonical representation every constructor normalizes to
//   - Bytes: the UTF-8 encoding of the text
//   - Float: the text parsed as a float64, NaN when it is not a number
//
// Construction never fails. Text that does not parse as a number simply yields
// a NaN numeric view, which agents use to decide whether to react:
//
//	msg := messages.New("10")
//	msg.Float()   // 10
//	msg.IsNaN()   // false
//
//	msg = messages.New("hello")
//	msg.IsNaN()   // true
//
//	msg = messages.FromFloat(7)
//	msg.Text()    // "7"
//
// Messages are passed by value and shared by every subscriber of a publish
// call. The byte view is copied on access so subscribers can never observe each
// other's mutations.
package messages
