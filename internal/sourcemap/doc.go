// Package sourcemap reconstructs original source trees from source-map
// documents.
//
// Reconstruction tolerates partial failure: a map referencing fifty
// files where three are unreachable still yields forty-seven usable
// files plus informative placeholders. Hard failures (map missing, no
// sources array) are reported inside the tree under a sentinel log
// entry rather than as errors, so callers always get a writable tree.
package sourcemap
