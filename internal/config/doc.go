// Package config loads the layered build configuration document: the
// symmetry naming convention used for mirroring and the category/color
// groupings used to present registered actions. A built-in default config
// is always present; a user HCL file layered on top takes precedence.
package config
