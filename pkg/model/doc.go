// Package model defines the normalized field tree consumed by the data
// initializer, the validation engine and the renderers. A Tree is produced once
// per schema by pkg/normalize and is treated as immutable afterwards: field ids
// and required flags never change, and rule keys are only present when the
// source schema declared them. Ids serialize as dot-joined paths (`a.b.c`);
// inside Go they stay fieldpath.Path segment lists.
package model
