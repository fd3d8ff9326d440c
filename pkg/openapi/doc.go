// Package openapi turns schemas embedded in OpenAPI 3 documents into form
// definitions. Documents are loaded and resolved with kin-openapi; UI hints
// travel in x-ui-* extensions and enum labels in x-enum-names.
package openapi
