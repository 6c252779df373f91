// Package library holds the reusable parts of a design: interface shapes
// and the module types every board is built from. Module types implement
// graph.ModuleType; application modules live in package app.
//
// Parameters use SI units: ohm, farad, volt, ampere and candela.
package library
