// Package hcl provides the HCL implementation of the config.Loader
// interface. It parses run description files into the format-agnostic
// config.Model.
package hcl
