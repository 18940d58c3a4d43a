// Package layout loads and writes form layout documents: named canvas
// layouts stored as JSON or YAML. A document maps form ids to their title,
// theme selection and element list:
//
//	forms:
//	  contact:
//	    title: Contact us
//	    theme: canvas
//	    elements:
//	      - id: header-1
//	        type: header
//	        position: {x: 100, y: 50}
//	        block: {content: Contact us}
//
// Sizes may be omitted and default to the element type's footprint. User
// facing strings are sanitised on load and every element is validated before
// a Store is returned.
package layout
