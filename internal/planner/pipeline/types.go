package pipeline

import (
	"context"

	"dinner-planner/pkg/llmprovider"
)

// Context is the accumulated key/value state threaded through one pipeline
// run. It is owned by a single run and never shared across goroutines; keys
// are only added, never removed, until the run ends.
type Context map[string]string

// NewContext returns an empty Context.
func NewContext() Context {
	return Context{}
}

// Clone returns a copy that the caller may mutate without affecting the
// original. A nil receiver clones to an empty Context.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// StageSpec describes one prompt-generation stage. Specs are built at startup,
// never mutated, and shared read-only across all runs.
type StageSpec struct {
	// Name identifies the stage in errors and logs.
	Name string

	// RequiredKeys must all be present in the Context before the stage runs.
	// The pipeline constructor verifies every required key is produced by an
	// earlier stage, so a missing key at run time is a defect.
	RequiredKeys []string

	// OutputKey is the Context key the generated text is stored under.
	// Empty marks the terminal stage, whose text is the pipeline result.
	OutputKey string

	// BuildPrompt renders the stage prompt from the accumulated context and
	// the raw user query. The query is available to every stage.
	BuildPrompt func(c Context, query string) string
}

// Terminal reports whether this stage produces the pipeline's final text
// instead of a context entry.
func (s StageSpec) Terminal() bool {
	return s.OutputKey == ""
}

// Generator is the text-generation capability a stage invokes. Satisfied by
// *llmprovider.Manager.
type Generator interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}
