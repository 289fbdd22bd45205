// Package resultdoc loads cc4s result documents.
//
// cc4s writes its run summary (cc4s.out) and its structured results
// (cc4s.out.yaml) as YAML. ReadYAML turns either into a Document: a mapping
// of field names to scalars, nested mappings and sequences.
//
// Keys are NFC normalized on load so that lookups compare canonical forms.
// Multi-document streams are merged top-level key by key, later documents
// winning, which matches how cc4s appends sections to a running output.
package resultdoc
