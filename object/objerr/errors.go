package objerr

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// enableDebugErrorPrinting makes errors include their stacktrace when printed
const enableDebugErrorPrinting bool = false
const enableDebugFullStacktrace bool = false

type ErrCode int

const (
	None      ErrCode = iota
	Attribute ErrCode = iota
	UnreadableProperty
	UnsetableProperty
	UndeletableProperty
	InheritanceCycle
	InconsistentHierarchy
	IncompatibleLayout
	NotCallable
	UnboundMethodMismatch
)

type ObjError interface {
	Error() string
	Code() ErrCode

	withStack([]byte) ObjError
	getStack() []byte
}

func FormatWithCode(e ObjError) string {
	if enableDebugErrorPrinting && e.getStack() != nil {
		stack := string(e.getStack())
		if !enableDebugFullStacktrace {
			stack = strings.Split(stack, "\n")[6]
		}
		return fmt.Sprintf("%s:(E%03d) %s", stack, e.Code(), e.Error())
	}
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

func New[E ObjError](err E) ObjError {
	return err.withStack(debug.Stack())
}

type Unclassified struct {
	From  error
	stack []byte
}

func (e Unclassified) Error() string {
	return fmt.Sprintf("unclassified error: %v", e.From)
}
func (e Unclassified) Code() ErrCode    { return None }
func (e Unclassified) getStack() []byte { return e.stack }
func (e Unclassified) withStack(stack []byte) ObjError {
	e.stack = stack
	return e
}

type NewAttribute struct {
	TypeName string
	Name     string
	stack    []byte
}

func (e NewAttribute) Error() string {
	return fmt.Sprintf("'%s' object has no attribute '%s'", e.TypeName, e.Name)
}
func (e NewAttribute) Code() ErrCode    { return Attribute }
func (e NewAttribute) getStack() []byte { return e.stack }
func (e NewAttribute) withStack(stack []byte) ObjError {
	e.stack = stack
	return e
}

type NewUnreadableProperty struct {
	Name  string
	stack []byte
}

func (e NewUnreadableProperty) Error() string {
	return fmt.Sprintf("property '%s' is not readable", e.Name)
}
func (e NewUnreadableProperty) Code() ErrCode    { return UnreadableProperty }
func (e NewUnreadableProperty) getStack() []byte { return e.stack }
func (e NewUnreadableProperty) withStack(stack []byte) ObjError {
	e.stack = stack
	return e
}

type NewUnsetableProperty struct {
	Name  string
	stack []byte
}

func (e NewUnsetableProperty) Error() string {
	return fmt.Sprintf("property '%s' cannot be set", e.Name)
}
func (e NewUnsetableProperty) Code() ErrCode    { return UnsetableProperty }
func (e NewUnsetableProperty) getStack() []byte { return e.stack }
func (e NewUnsetableProperty) withStack(stack []byte) ObjError {
	e.stack = stack
	return e
}

type NewUndeletableProperty struct {
	Name  string
	stack []byte
}

func (e NewUndeletableProperty) Error() string {
	return fmt.Sprintf("property '%s' cannot be deleted", e.Name)
}
func (e NewUndeletableProperty) Code() ErrCode    { return UndeletableProperty }
func (e NewUndeletableProperty) getStack() []byte { return e.stack }
func (e NewUndeletableProperty) withStack(stack []byte) ObjError {
	e.stack = stack
	return e
}

type NewInheritanceCycle struct {
	TypeName string
	stack    []byte
}

func (e NewInheritanceCycle) Error() string {
	return fmt.Sprintf("a class cannot inherit from itself: '%s'", e.TypeName)
}
func (e NewInheritanceCycle) Code() ErrCode    { return InheritanceCycle }
func (e NewInheritanceCycle) getStack() []byte { return e.stack }
func (e NewInheritanceCycle) withStack(stack []byte) ObjError {
	e.stack = stack
	return e
}

type NewInconsistentHierarchy struct {
	TypeName    string
	Conflicting []string
	stack       []byte
}

func (e NewInconsistentHierarchy) Error() string {
	return fmt.Sprintf(
		"cannot create a consistent method resolution order for '%s' given bases %s",
		e.TypeName, strings.Join(e.Conflicting, ", "),
	)
}
func (e NewInconsistentHierarchy) Code() ErrCode    { return InconsistentHierarchy }
func (e NewInconsistentHierarchy) getStack() []byte { return e.stack }
func (e NewInconsistentHierarchy) withStack(stack []byte) ObjError {
	e.stack = stack
	return e
}

type NewIncompatibleLayout struct {
	OldType string
	NewType string
	Reason  string
	stack   []byte
}

func (e NewIncompatibleLayout) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("__class__ assignment: %s", e.Reason)
	}
	return fmt.Sprintf("'%s' object layout differs from '%s'", e.NewType, e.OldType)
}
func (e NewIncompatibleLayout) Code() ErrCode    { return IncompatibleLayout }
func (e NewIncompatibleLayout) getStack() []byte { return e.stack }
func (e NewIncompatibleLayout) withStack(stack []byte) ObjError {
	e.stack = stack
	return e
}

type NewNotCallable struct {
	Wrapper string
	Got     string
	stack   []byte
}

func (e NewNotCallable) Error() string {
	return fmt.Sprintf("%s expected a callable, got '%s'", e.Wrapper, e.Got)
}
func (e NewNotCallable) Code() ErrCode    { return NotCallable }
func (e NewNotCallable) getStack() []byte { return e.stack }
func (e NewNotCallable) withStack(stack []byte) ObjError {
	e.stack = stack
	return e
}

type NewUnboundMethodMismatch struct {
	MethodName string
	WantClass  string
	GotClass   string
	stack      []byte
}

func (e NewUnboundMethodMismatch) Error() string {
	return fmt.Sprintf(
		"unbound method %s() must be called with a '%s' instance as first argument, got '%s'",
		e.MethodName, e.WantClass, e.GotClass,
	)
}
func (e NewUnboundMethodMismatch) Code() ErrCode    { return UnboundMethodMismatch }
func (e NewUnboundMethodMismatch) getStack() []byte { return e.stack }
func (e NewUnboundMethodMismatch) withStack(stack []byte) ObjError {
	e.stack = stack
	return e
}
