package backend

// InvokeOptions carries the per-invocation knobs a backend needs to build
// its command line.
type InvokeOptions struct {
	Model           string
	ReasoningEffort string
	RequireGit      bool
}

// Backend defines the contract for invoking one external LLM CLI family.
// Every backend runs as a one-shot process reading the prompt from stdin
// and writing its answer to stdout.
type Backend interface {
	Name() string
	Command() string
	BuildArgs(opts InvokeOptions) []string
	// Env returns extra KEY=VALUE entries appended to the child process
	// environment, or nil.
	Env() []string
	// ExtractAnswer converts captured stdout into the answer text. An error
	// marks the invocation as failed.
	ExtractAnswer(stdout []byte) (string, error)
}

var (
	logWarnFn  = func(string) {}
	logErrorFn = func(string) {}
)

// SetLogFuncs configures optional logging hooks used by some backends.
// Callers can safely pass nil to disable the hook.
func SetLogFuncs(warnFn, errorFn func(string)) {
	if warnFn != nil {
		logWarnFn = warnFn
	} else {
		logWarnFn = func(string) {}
	}
	if errorFn != nil {
		logErrorFn = errorFn
	} else {
		logErrorFn = func(string) {}
	}
}
