// Package suggest reviews a family tree and proposes corrections.
//
// Three kinds of findings are produced:
//
//   - missingParent: a person with no parents (high priority) or one parent
//     (medium priority)
//   - ageAnomaly: a child born too soon after a parent, or spouses whose birth
//     years are implausibly far apart (medium priority)
//   - possibleDuplicate: two people sharing a normalized name and birth year
//     (low priority)
//
// Suggestions are advisory. Nothing in this package modifies the tree.
package suggest
