// Package correlate lets many concurrent callers share one execution unit.
//
// A Client stamps every outbound request with a fresh id, parks a Completion
// under that id and resolves it when the matching reply comes back. Replies
// may arrive in any order. When the channel faults every pending Completion
// is rejected at once and the Client refuses further work.
package correlate
