// Package snapshotfile reads event snapshots from YAML or JSON files and
// normalizes them into store imports.
package snapshotfile
