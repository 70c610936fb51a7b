// Package catalog defines the catalog item record, the filter snapshot used
// to query it, and the demo dataset served by shelfd and the in-process
// memory source.
//
// # Filters
//
// Filters is an immutable value: every operation returns a new snapshot and
// never mutates the receiver. Snapshots are comparable with ==, and the zero
// value is the default (all text filters empty, toggle Ativo).
//
//	f := catalog.Filters{}
//	f = f.Update(catalog.FieldCategory, "Frontend")
//	f = f.Flip()          // toggle Ativo -> Inativo
//	f = f.Reset()         // back to the zero value
//
// No operation validates text values. The toggle accepts only its two
// labels; Update ignores anything else.
//
// # Dataset
//
// Builtin returns the hard-coded demo catalog. LoadDataset reads the same
// shape from a YAML file:
//
//	items:
//	  - name: Angular
//	    category: Frontend
//	    status: Ativo
//	    platform: Web
//	categories: [Frontend, Backend]
//
// Option lists omitted from the file are derived from the items.
package catalog
