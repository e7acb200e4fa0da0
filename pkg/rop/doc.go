// Package rop holds Result[T], the settled outcome shared by every layer of
// chartflow: transforms succeed or fail, and completions on a channel are
// additionally cancelled when the channel itself faults or is closed.
package rop
