package batch

// ItemStatus is the processing outcome of a single uploaded item.
type ItemStatus string

// Item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of processing one file in a multi-file upload.
// Name is the uploaded filename; ID is the stored submission id and is empty on error.
type Result struct {
	name   string
	id     string
	status ItemStatus
	err    error
}

// NewOK creates a successful item result.
func NewOK(name, id string) Result { return Result{name: name, id: id, status: StatusOK} }

// NewError creates a failed item result.
func NewError(name string, err error) Result { return Result{name: name, status: StatusError, err: err} }

// Name returns the uploaded filename.
func (r Result) Name() string { return r.name }

// ID returns the stored submission id.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Count returns how many results have the given status.
func Count(results []Result, status ItemStatus) int {
	n := 0
	for _, r := range results {
		if r.status == status {
			n++
		}
	}
	return n
}
