// Package helper provides the built-in Handlebars helpers available to
// every prompt template: role, history, section and media (which emit the
// marker protocol decoded by the parse package), json for serializing
// values, and the ifEquals and unlessEquals block helpers.
package helper
