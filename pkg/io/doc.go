// Package io reads and writes sheet files: a draft name plus the field map
// of one summary sheet, in JSON, YAML or TOML.
//
// # Format
//
// The same structure is used by all three encodings:
//
//	name: Q3 Review
//	fields:
//	  Topic: Hiring plan
//	  Option1Pros: Fast
//	  Action1: Post the job ad
//
// Field keys must be sheet keys (see package sheet); unknown keys are
// rejected so typos do not silently render as empty boxes. Missing keys are
// fine and render empty.
//
// A batch file holds several sheets under "sheets" and is rendered in
// parallel by the render command.
//
// # Import
//
//	f, err := io.ImportFile("q3.yaml")
//	b, err := io.ImportBatch("all.toml")
//
// # Export
//
//	err := io.ExportFile(f, "q3.json")
//
// The format is chosen from the file extension (.json, .yaml, .yml, .toml).
package io
