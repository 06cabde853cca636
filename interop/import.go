package interop

import (
	"fmt"
	"reflect"

	"github.com/calyx-lang/calyx/object"
	"github.com/pkg/errors"
)

// HostValue wraps an arbitrary host Go value as a guest value.
type HostValue struct {
	RV reflect.Value
}

func (h HostValue) TypeName() string { return h.RV.Type().String() }

func (h HostValue) String() string { return fmt.Sprint(h.RV.Interface()) }

// HostFunc wraps a host Go function as a guest callable, converting guest
// values to and from the function's reflected parameter types.
type HostFunc struct {
	Name      string
	Fn        reflect.Value
	DocString string
}

func (f *HostFunc) TypeName() string { return "builtin_function_or_method" }

func (f *HostFunc) Doc() string { return f.DocString }

func (f *HostFunc) Call(args []object.Value) (v object.Value, err error) {
	ft := f.Fn.Type()
	if !ft.IsVariadic() && len(args) != ft.NumIn() {
		return nil, errors.Errorf("%s() takes %d arguments, got %d", f.Name, ft.NumIn(), len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		rv, convErr := toHost(arg, paramType(ft, i))
		if convErr != nil {
			return nil, errors.Wrapf(convErr, "argument %d of %s()", i, f.Name)
		}
		in[i] = rv
	}
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, errors.Errorf("host function %s() panicked: %v", f.Name, r)
		}
	}()
	outs := f.Fn.Call(in)
	return fromHostOuts(outs)
}

func paramType(ft reflect.Type, i int) reflect.Type {
	if ft.IsVariadic() && i >= ft.NumIn()-1 {
		return ft.In(ft.NumIn() - 1).Elem()
	}
	return ft.In(i)
}

func fromHostOuts(outs []reflect.Value) (object.Value, error) {
	if n := len(outs); n > 0 {
		if last := outs[n-1]; last.Type() == errType {
			if !last.IsNil() {
				return nil, last.Interface().(error)
			}
			outs = outs[:n-1]
		}
	}
	if len(outs) == 0 {
		return object.Nil, nil
	}
	return fromHost(outs[0]), nil
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

func toHost(v object.Value, want reflect.Type) (reflect.Value, error) {
	var rv reflect.Value
	switch x := v.(type) {
	case HostValue:
		rv = x.RV
	case *HostInstance:
		rv = x.value
	case object.IntValue:
		rv = reflect.ValueOf(int64(x))
	case object.StrValue:
		rv = reflect.ValueOf(string(x))
	case object.NilValue:
		return reflect.Zero(want), nil
	default:
		return reflect.Value{}, errors.Errorf("cannot pass '%s' to a host function", v.TypeName())
	}
	if rv.Type() == want {
		return rv, nil
	}
	if rv.Kind() == reflect.Ptr && rv.Type().Elem() == want {
		return rv.Elem(), nil
	}
	if want.Kind() == reflect.Ptr && rv.CanAddr() && rv.Addr().Type() == want {
		return rv.Addr(), nil
	}
	if rv.Type().ConvertibleTo(want) {
		return rv.Convert(want), nil
	}
	return reflect.Value{}, errors.Errorf("cannot convert %s to %s", rv.Type(), want)
}

func fromHost(rv reflect.Value) object.Value {
	switch rv.Kind() {
	case reflect.Invalid:
		return object.Nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return object.IntValue(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return object.IntValue(int64(rv.Uint()))
	case reflect.String:
		return object.StrValue(rv.String())
	default:
		return HostValue{RV: rv}
	}
}

// HostInstance is a guest instance backed by a host value. Its class is
// fixed: native instances never support re-classing.
type HostInstance struct {
	class *object.TypeObject
	value reflect.Value
}

// NewHostInstance wraps v as an instance of class. Pass a pointer when
// field assignment is needed, since only addressable fields can be set.
func NewHostInstance(class *object.TypeObject, v any) *HostInstance {
	return &HostInstance{class: class, value: reflect.ValueOf(v)}
}

func (i *HostInstance) TypeName() string { return i.class.Name() }

func (i *HostInstance) Class() *object.TypeObject { return i.class }

func (i *HostInstance) SwapClass(old, new *object.TypeObject) bool {
	return old == i.class && new == i.class
}

// ImportType wraps a host Go type as a guest class: exported methods become
// method descriptors and exported struct fields become properties. The
// reflect.Type becomes the class's native handle, which makes layout
// compatibility exact-type identity.
func ImportType(h *object.Hierarchy, rt reflect.Type) (*object.TypeObject, error) {
	if rt.Name() == "" {
		return nil, errors.Errorf("cannot import unnamed type %s", rt)
	}
	t, err := h.NewNativeType(rt.Name(), []*object.TypeObject{h.Object()}, nil, rt)
	if err != nil {
		return nil, errors.Wrapf(err, "could not create class for %s", rt)
	}
	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		if !m.IsExported() {
			continue
		}
		fn := &HostFunc{Name: m.Name, Fn: m.Func}
		t.SetMember(m.Name, object.NewMethod(fn, t))
	}
	structType := rt
	if structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}
	if structType.Kind() == reflect.Struct {
		for i := 0; i < structType.NumField(); i++ {
			f := structType.Field(i)
			if !f.IsExported() {
				continue
			}
			t.SetMember(f.Name, fieldProperty(f))
		}
	}
	logger.Debug("imported host type", "type", rt.String(), "class", t.Name())
	return t, nil
}

func fieldProperty(f reflect.StructField) *object.Property {
	get := &object.FuncValue{
		Name:      f.Name,
		DocString: string(f.Tag),
		Fn: func(args []object.Value) (object.Value, error) {
			inst, err := hostReceiver(args)
			if err != nil {
				return nil, err
			}
			return fromHost(structValue(inst.value).FieldByIndex(f.Index)), nil
		},
	}
	set := &object.FuncValue{
		Name: f.Name,
		Fn: func(args []object.Value) (object.Value, error) {
			inst, err := hostReceiver(args)
			if err != nil {
				return nil, err
			}
			if len(args) < 2 {
				return nil, errors.Errorf("field setter for %s needs a value", f.Name)
			}
			field := structValue(inst.value).FieldByIndex(f.Index)
			if !field.CanSet() {
				return nil, errors.Errorf("field %s is not assignable; wrap the instance in a pointer", f.Name)
			}
			rv, err := toHost(args[1], f.Type)
			if err != nil {
				return nil, err
			}
			field.Set(rv)
			return object.Nil, nil
		},
	}
	return object.NewProperty(get, set, nil, "")
}

func hostReceiver(args []object.Value) (*HostInstance, error) {
	if len(args) == 0 {
		return nil, errors.New("missing receiver")
	}
	inst, ok := args[0].(*HostInstance)
	if !ok {
		return nil, errors.Errorf("expected a host-backed instance, got '%s'", args[0].TypeName())
	}
	return inst, nil
}

func structValue(rv reflect.Value) reflect.Value {
	if rv.Kind() == reflect.Ptr {
		return rv.Elem()
	}
	return rv
}
