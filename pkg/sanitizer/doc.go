// Package sanitizer cleans untrusted form input before it reaches validation,
// message composition or logging.
//
// The central entry point is String, which normalises a value to Unicode NFC,
// trims surrounding whitespace and escapes the HTML special characters
// (`<`, `>`, `&`, `'`, `"`). Escaping is idempotent: entities produced by a
// previous pass are decoded before escaping, so sanitizing already sanitized
// text returns it unchanged.
//
// Clean applies String to every leaf string of an arbitrary value: structs,
// slices, arrays, maps, pointers and interfaces are walked recursively and a
// value of the same shape is returned. Struct fields tagged `sanitize:"-"`
// are copied as is.
//
//	type Form struct {
//	    Name    string `form:"name"`
//	    Message string `form:"message"`
//	}
//
//	clean := sanitizer.Clean(Form{Name: "  <b>Taro</b> "})
//	// clean.Name == "&lt;b&gt;Taro&lt;/b&gt;"
//
// Smaller helpers (Trim, MaxLength, SingleLine, RemoveControlChars) can be
// combined with Apply and Compose into reusable pipelines:
//
//	header := sanitizer.Compose(sanitizer.SingleLine, sanitizer.Trim)
//	subject := header(raw)
//
// All functions are pure and never fail.
package sanitizer
