package deps

import "fmt"

// RegistryError reports that a package's metadata could not be fetched.
type RegistryError struct {
	Name string
	Err  error
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("registry: fetch %s: %v", e.Name, e.Err)
}

func (e *RegistryError) Unwrap() error { return e.Err }

// UnsatisfiableRangeError reports that no published version matches a range.
// Err is set when the range itself could not be parsed.
type UnsatisfiableRangeError struct {
	Name  string
	Range string
	Err   error
}

func (e *UnsatisfiableRangeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("no version of %s satisfies %q: %v", e.Name, e.Range, e.Err)
	}
	return fmt.Sprintf("no version of %s satisfies %q", e.Name, e.Range)
}

func (e *UnsatisfiableRangeError) Unwrap() error { return e.Err }

// RequestError ties a failure to the request and requester that hit it.
// Err is a *RegistryError or an *UnsatisfiableRangeError.
type RequestError struct {
	Request   Request
	Requester Requester
	Err       error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("resolve %s (from %s): %v", e.Request, e.Requester, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }
