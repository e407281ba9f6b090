// Package dispatch maps command names to handlers and parses the arguments
// of the standard protocol verbs.
//
// A line is split into a command word and the remaining text. The handler
// registered under the word receives a Context over that remainder and is free
// to tokenize it with its own args.Reader.
//
// Key features:
//   - Last registration under a name wins, so built-ins can be overridden
//   - Handlers return errors; input faults are classified by the caller
//   - Parsers for "go", "position" and "setoption" produce plain records
//
// Parse errors:
//   - Missing keyword (name, value) → input fault
//   - Unknown position specifier or stray token → input fault
//   - Non-numeric limit value → input fault
//   - "infinite" after another limit → input fault
package dispatch
