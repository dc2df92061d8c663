// Package io reads planner problems from JSON and CSV files and writes
// sweep results as JSON for downstream placement solvers.
//
// # JSON problem format
//
// The primary interchange format mirrors the model types directly:
//
//	{
//	  "capacity": 16,
//	  "buffers": [
//	    {"id": "a", "lifespan": {"lower": 0, "upper": 10}, "size": 4},
//	    {"id": "b", "lifespan": {"lower": 3, "upper": 7}, "size": 8,
//	     "gaps": [{"lifespan": {"lower": 4, "upper": 6},
//	               "window": {"lower": 0, "upper": 2}}]}
//	  ]
//	}
//
// # CSV problem format
//
// A flat table for hand-written or spreadsheet-exported problems. The
// header row names the columns; id, lower, upper, and size are required,
// alignment and gaps are optional:
//
//	id,lower,upper,size,gaps
//	a,0,10,4,
//	b,3,7,8,4-6@0:2
//
// The gaps column holds space-separated entries of the form "lo-hi" (the
// buffer needs no memory during [lo, hi)) or "lo-hi@wlo:whi" (the buffer
// narrows to the window [wlo, whi)).
//
// Import functions choose the format by file extension; Read functions take
// the format explicitly. All imported problems are validated with
// [model.Problem.Validate] before being returned.
package io
