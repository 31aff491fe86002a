// Package picoschema compiles the compact schema notation used in prompt
// frontmatter into plain JSON Schema maps.
//
// The notation supports scalar keywords (string, number, integer, boolean,
// object, array, null, any), "type[]" arrays, "a | b" unions, inline object
// definitions with optional fields ("name?"), trailing ", description"
// comments, parenthetical field forms (array, object, enum), the "(*)"
// wildcard for additional properties, and named schemas looked up through a
// core.SchemaResolver. Values that already look like JSON Schema (carrying
// "type" or "properties") pass through untouched.
package picoschema
