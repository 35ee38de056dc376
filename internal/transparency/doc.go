// Package transparency renders carnerd results for people.
//
// The glass-box report shows what the engine decided and why:
//
//   - Decision: the action, its reasoning and confidence
//   - Inferences: the ranked claims the decision rests on
//   - Ethics: the four assessments and the categorical imperative verdict
//   - Critique: limitations, uncertainty sources and the reflection narrative
//   - Antinomies: detected tensions and how they were resolved
//
// Rendering never changes a result. Reports are markdown so the CLI can print
// them as-is or style them for a terminal.
package transparency
