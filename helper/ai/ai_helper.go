package ai

// Completion is the LLM provider boundary. A failed call means "no review for
// this unit"; callers log the error and continue with the rest of the batch.
type Completion interface {
	Complete(prompt string) (string, error)
}
