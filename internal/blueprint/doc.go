// Package blueprint ties a step tree, build settings and a symmetry
// config together into the savable unit that builds are run from.
//
// Blueprints persist as YAML documents. Attribute values for actions
// whose spec is unregistered at load time survive a load and save cycle
// untouched.
package blueprint
