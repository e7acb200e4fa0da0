package unit

// WithHandler swaps the host for tests outside the package.
var WithHandler = withHandler
