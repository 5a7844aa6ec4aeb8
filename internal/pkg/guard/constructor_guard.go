package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error was supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether the owning value went through its constructor.
//
// Embed it in a struct and set it with NewConstructorGuard inside the constructor:
//
//	type BulkAddOrdersCommand struct {
//	    groupID  kernel.UUID
//	    orderIDs []kernel.UUID
//	    guard    guard.ConstructorGuard
//	}
//
//	func (c BulkAddOrdersCommand) Validate() error {
//	    return c.guard.Validate(ErrBulkAddOrdersCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
