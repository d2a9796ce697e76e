// Package chain provides the typed node and singly-linked chain used by the
// classifier and the sort engine.
//
// A chain is an owned, acyclic sequence of *Node values rooted at a single
// head. Functions that restructure a chain take ownership of it and return
// the new head; callers must use only the returned head afterwards.
//
// Key design constraints:
//   - Payload is a sealed sum type: Int, Str or Char. Nothing else implements it.
//   - Char payloads are transient and never leave the classifier.
//   - Every chain walk is iterative; nothing here recurses on chain length.
//
// chain imports nothing internal. All other internal packages import chain.
package chain
