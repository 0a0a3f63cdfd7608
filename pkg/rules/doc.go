// Package rules loads validator chains from declarative documents.
//
// A rules document maps field paths to ordered rule lists:
//
//	fields:
//	  title:
//	    - rule: notEmpty
//	      message: Title is required
//	    - rule: lengthMoreThan
//	      length: 3
//	      message: Title must be more than 3 characters
//	  variants.price:
//	    - rule: numeric
//	      message: Price must be a number
//
// Paths use the same syntax as remote error paths; list indexes are ignored
// so "variants.price" and "variants[0].price" name the same chain. Chains can
// also be derived from an OpenAPI component schema with FromOpenAPI.
package rules
