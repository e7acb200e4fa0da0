// Package solo contains single-value, synchronous primitives over
// rop.Result[T]. The unit host chains them to turn a decoded operation into
// exactly one reply:
// - Succeed: wrap a value as a successful Result[T]
// - Validate/AndValidate/Join: reject inputs before execution
// - Map/Try: move a successful value forward
// - Finally: collapse into a concrete value via success/error/cancel handlers
package solo
