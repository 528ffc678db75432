package godeco

import "reflect"

var (
	AnyType       = TypeOf[any]()
	ErrorType     = TypeOf[error]()
	ContextType   = TypeOf[*Context]()
	ResultType    = TypeOf[Result]()
	TransformType = TypeOf[Transform]()
)

func TypeOf[I any]() reflect.Type {
	var i I
	t := reflect.TypeOf(i)
	if t == nil {
		t = reflect.TypeOf((*I)(nil)).Elem()
	}
	return t
}
