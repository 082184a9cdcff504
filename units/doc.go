// Package units implements physical quantities: a magnitude paired with a
// product of powers of named units.
//
// A Registry resolves unit symbols such as "mm", "lb", "kWh", "°F" or "grams"
// to definitions carrying a dimension vector and a scale factor relative to
// SI base units. Quantities built from a registry support dimension-checked
// arithmetic and conversion between units of equal dimension. The registry
// also rewrites a composite unit into a reduced (Simplify) or base-unit
// (Expand) form using its own definitions.
//
// Unit strings accept products and quotients of symbols with optional integer
// powers, e.g. "lb/ft3", "m*A/hr", "kg/m^3", "ft/(s*s)" or "m**2".
package units
