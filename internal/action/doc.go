// Package action defines the build action catalog and the data model that
// parametrizes actions inside a blueprint.
//
// A Spec describes a registered action type: its globally unique id,
// display metadata, ordered attribute definitions and a factory for the Go
// implementation. The Registry is the process-wide catalog of specs.
//
// A Proxy stands in for an action during blueprint editing. It holds the
// invariant attribute values, an ordered list of variant rows that override
// the attributes marked variant, and a mirrored flag. Expanding a proxy
// produces the concrete Instances that a build run executes: one per
// variant row (or exactly one without variants), doubled when mirrored.
package action
