// Package step implements the hierarchical step tree of a blueprint.
//
// A step is either a group, which organizes other steps, or an action
// step, which carries an action proxy and cannot have children. Sibling
// names are kept unique so that every step is addressable by its
// slash-joined path from the root.
package step
