package calcclient

import "fmt"

// ServiceError is returned when the calculation service answers with a
// non-2xx status. Detail is empty when the body carried no usable message.
type ServiceError struct {
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("calculation service returned %d", e.StatusCode)
	}
	return fmt.Sprintf("calculation service returned %d: %s", e.StatusCode, e.Detail)
}

// TransportError is returned when the call could not be completed: the
// request never got an answer or the answer could not be read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
