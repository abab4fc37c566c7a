// Package test holds the fixtures shared by the unit tests.
package test

import "embed"

//go:embed testdata
var TestData embed.FS
