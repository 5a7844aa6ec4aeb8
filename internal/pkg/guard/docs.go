// Package guard provides ConstructorGuard, a marker embedded in entities, commands and
// queries so that zero values created with a struct literal are rejected by Validate.
package guard
