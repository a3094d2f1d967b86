// Package pydia implements session.Engine on top of the druggability Python
// package shipped with the DruGUI plugin for VMD.
//
// Locate runs a one-line import check. NewSession starts one long-lived
// interpreter running an embedded bridge script and drives the package's DIA
// object through a JSON-lines protocol:
//
//   - requests are written to the interpreter's stdin, one object per line;
//   - every request gets exactly one reply on file descriptor 3;
//   - the interpreter's stdout and stderr carry the engine's own console
//     output and are forwarded untouched.
//
// The search path is handed to the interpreter in DGRUN_SEARCH_PATH and
// appended to sys.path, skipping entries already present. The process
// environment of dgrun itself is never modified.
package pydia
