// Package pipeline defines the data model shared by every part of the
// simulator: the declarative pipeline definition (Config, Stage, Settings),
// the per-run output records (Execution, Result, metrics), the definition
// validator, and the JSON/YAML/HCL definition loaders.
//
// Values of Config are immutable for the lifetime of a run: the loader and
// the caller own them, the scheduler only reads them.
package pipeline
