// Package generate drives blueprint generation: one upstream completion per
// attempt, the recovery pipeline over the fresh text, and a fixed pause
// before the next attempt when either step fails.
//
// Three kinds of failure share one attempt budget: the upstream call failing,
// the model answering with nothing ([client.ErrEmptyResponse]), and every
// recovery strategy failing ([parse.ErrNoValidBlueprint]). With the default
// MaxRetries of 3 the upstream is called at most four times, 1.5s apart.
package generate
