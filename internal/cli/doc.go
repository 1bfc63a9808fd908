// Package cli implements the judge command line: run, verify and list.
package cli
