// Package structured normalises JSON and YAML documents into records.
//
// A document (or the node selected by a path expression) becomes one
// record per array element, one record for an object, or a single
// {value} record for a scalar. Objects keep their key order.
package structured
