// Package prompt builds the messages sent to the generation provider. It is
// pure string assembly so the template can be tested without any network.
package prompt

import "strings"

const system = "You are a helpful assistant. Answer the user's question based only on the following context. If the context does not contain enough information, say so. Do not make up facts."

const noContextNote = "No relevant context was found in the knowledge base. Tell the user you could not find supporting documentation for this question."

// Build assembles the system and user messages from ranked context blocks
// (highest score first) and the question. With no contexts the user message
// notes that retrieval came up empty; generation still proceeds.
func Build(contexts []string, question string) (systemMsg, userMsg string) {
	var b strings.Builder
	if len(contexts) == 0 {
		b.WriteString(noContextNote)
	} else {
		b.WriteString("Context:")
		for _, c := range contexts {
			b.WriteString("\n---\n")
			b.WriteString(c)
		}
		b.WriteString("\n---")
	}
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return system, b.String()
}
