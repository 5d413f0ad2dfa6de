// Package audit classifies local directories by how safe they are to delete.
//
// Classifier inspects a single candidate through git and yields a RepositoryResult whose
// RepositoryState maps to a severity and, for unsaved work, a remediation command. Service
// expands path specifiers, classifies candidates on a bounded worker pool, and folds the
// results into a process exit code. CommandBuilder wires the Cobra command around Service.
package audit
