// Package core contains the worker plumbing behind execution units: the
// locomotive loop that pulls frames from an inbox, runs them through an
// engine and delivers the outcome, plus worker configuration carried on the
// context. It holds no chart logic.
package core
