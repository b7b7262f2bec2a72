package workflow

// node identifies a step of the pipeline state machine.
type node int

const (
	nodeRetrieve node = iota
	nodeGenerate
	nodeValidate
	nodeRespond
	nodeDone
)

func (n node) String() string {
	switch n {
	case nodeRetrieve:
		return "retrieve"
	case nodeGenerate:
		return "generate"
	case nodeValidate:
		return "validate"
	case nodeRespond:
		return "respond"
	case nodeDone:
		return "done"
	default:
		return "unknown"
	}
}

// nextAfterValidate is the retry decision: given the validation outcome it
// returns the node the workflow moves to. It is pure and mutates nothing.
//
// A valid answer proceeds to respond. An invalid answer is regenerated
// while retries remain; once retryCount reaches maxRetries the workflow
// responds anyway (retry exhaustion is a designed terminal path, not an
// error). With maxRetries = 0 the first failure routes straight to
// respond, so generate runs at most maxRetries+1 times.
func nextAfterValidate(isValid bool, retryCount, maxRetries int) node {
	switch {
	case isValid:
		return nodeRespond
	case retryCount < maxRetries:
		return nodeGenerate
	default:
		return nodeRespond
	}
}
