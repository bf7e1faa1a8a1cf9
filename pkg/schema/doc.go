// Package schema describes the expected binary layout of resource fields.
//
// A FieldSchema names one field, says whether it is required or deprecated,
// and lists the value slots it encodes into. Each ValueSchema slot has a
// byte offset, a width, an allowed-type mask, and optionally a symbol table
// and a default-value generator. Schemas are immutable after construction
// and shared read-only across assemblies: declare them once per resource
// type, either in code via the builders or in a YAML table.
//
// # YAML Tables
//
// A table declares the field schemas for one resource type:
//
//	type: "shïp"
//	fields:
//	  - name: flags
//	    required: true
//	    values:
//	      - name: flags
//	        types: [integer, bitmask]
//	        offset: 0
//	        size: 2
//	        symbols:
//	          kNone: 0
//	          kCarried: 1
//	        default: 0
//
// Symbol tables keep document order; lookup during assembly is a linear
// scan in that order.
package schema
