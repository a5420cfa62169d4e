package jsonrule

// Package jsonrule provides:
//
// - A composable rule algebra for validating decoded JSON-like values
// - A stable error model via Issues (JSON Pointer, code, message)
// - Sibling-dependent conditional rules (When) for if/then/else schemas
// - A boolean Test entry point separate from detailed validation
//
// Design policy:
// - Keep only public APIs in the root package; decoding lives under schema/,
//   the schema-to-rule compiler under compile/, and the CLI under cmd/jsonrule.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  r, diag, err := compile.Compile(schemaBytes, compile.Options{})
//  if err := r.Validate(ctx, doc); err != nil { ... }
//  ok := jsonrule.Test(ctx, r, doc)
//
