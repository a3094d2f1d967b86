// Package cli is responsible for parsing the command line and environment,
// validating user input, and handling process-level concerns like exit
// codes. It translates them into the application's configuration.
package cli
