// Package domain models the two public data sources this pipeline joins:
// the NOAA Oceanic Niño Index (ONI) and WSDOT mountain pass snowfall history.
//
// # ONI Source
//
// The Climate Prediction Center publishes ONI as an HTML table with one row
// per season and one column per three-month running window. Season labels
// encode the starting calendar year ("2015-16"); the year is the first
// four-digit numeral in the label. Cells are sea-surface temperature
// anomalies in °C; an empty cell means the window has not been published
// yet and is excluded from averaging.
//
// # ENSO Classification
//
// A calendar year is classified from the mean of its available monthly ONI
// values using the standard ±0.5 °C thresholds:
//
//	mean >= +0.5  →  "El Niño"
//	mean <= -0.5  →  "La Niña"
//	otherwise     →  "Neutral"
//
// Both boundaries belong to the Niño/Niña side, not to Neutral. A year with
// no published values at all is dropped rather than classified.
//
// # Snowfall Source
//
// WSDOT exposes per-pass snowfall history behind a per-(site, year)
// endpoint. Each response carries monthly aggregates (month number, month
// name, average new snowfall, average total snow depth, both in inches)
// plus daily detail rows. Only the monthly aggregates are kept. The
// calendar date attached to each monthly record is the first day of that
// (year, month).
//
// # Water Year Ordering
//
// Snow-season displays order months October through the following May,
// matching when snow actually falls at the passes. June–September records
// stay in the combined dataset but are excluded from display ordering.
package domain
