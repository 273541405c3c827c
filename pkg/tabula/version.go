// Package tabula holds build metadata for the tabula module.
package tabula

// Version is the release version of the tabula CLI and libraries.
const Version = "0.3.0"
