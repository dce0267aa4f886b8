// Package failure turns errors from tool calls into a stable, user-facing
// taxonomy.
//
// Arbitrary failures are first converted at the boundary into a Failure,
// a closed set of three variants:
//
//   - *Transport: an upstream HTTP failure with a status (0 when unknown)
//     and the upstream message.
//   - *Generic: any other error with a message, including local argument
//     validation errors.
//   - *Opaque: anything else.
//
// Classify maps a Failure to Details (message, optional status, Code and
// optional suggestion). Payload renders Details as indented JSON and
// Envelope wraps that payload in an MCP tool result flagged as an error.
//
// Nothing in this package panics, performs I/O or retries.
package failure
