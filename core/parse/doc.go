// Package parse recovers structured data from raw model output. Language
// models frequently wrap JSON in prose or markdown fences, truncate it, or
// emit JavaScript-isms such as comments, trailing commas and single quotes,
// so this package applies an ordered list of text transforms ([Strategy]) and
// accepts the first candidate that both parses strictly and validates.
//
// Cheap, conservative transforms run first; destructive repairs run last
// because they can corrupt content that was otherwise valid. Correctness comes
// from the ordering and from validation-gated acceptance, not from any single
// transform being right.
//
// [Pipeline.Recover] is the blueprint entry point. [ParseStringAs] applies the
// same candidate extraction plus library-based repair to arbitrary Go types.
package parse
