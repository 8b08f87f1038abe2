// Package module runs one onectl invocation.
//
// The driver connects to OpenNebula, resolves the parameter set once, hands
// an Invocation to the command and reports the outcome as an
// output.Result. The remote session is closed on every path before the
// result is emitted, including failures and panics inside the command.
//
// Error Handling:
//
// Any error returned by the command, the connection or the resolver becomes
// a *Failure carrying a human-readable message. Errors reported by the
// remote system are prefixed with "OpenNebula Exception: ".
package module
