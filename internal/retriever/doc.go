// Package retriever is the read path of the pipeline: it embeds a
// natural-language question, searches the vector index, and returns ranked
// results with scores and full payloads. The Generator interface defines the
// downstream contract for answer generation without binding the core to any
// generative backend.
package retriever
