// Package binder decodes HTTP request bodies into tagged structs.
//
// Form handles application/x-www-form-urlencoded and the value parts of
// multipart/form-data using `form:"name"` tags; JSON decodes
// application/json bodies. Each returns ErrNotApplicable for content types
// it does not handle, so several binders can be chained.
package binder
