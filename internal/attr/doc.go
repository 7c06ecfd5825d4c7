// Package attr implements the typed attribute system used by build actions.
//
// Every action attribute has a Kind drawn from a closed set (bool, int,
// float, vector3, string, stringlist, option, node, nodelist, file). Values
// are represented as cty.Value so that acceptability checks, defaulting and
// serialization all flow through one well-defined type system. A Value only
// stores an explicit override; reading it falls back to the definition's
// default, so default values never serialize.
package attr
