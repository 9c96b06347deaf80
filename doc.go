// Package jsonschema2avro converts JSON Schema documents into Avro schemas.
//
// A document is converted in three steps: every definition under $defs or
// definitions and then the root are turned into Avro types; the named types
// are ordered so each one is defined before it is used, inlining definitions
// to break reference cycles; finally every named type is written in full at
// its first occurrence and referenced by name afterwards.
//
// Lossy constructs degrade instead of failing. Unsupported fragments become
// a generic union of primitives, arrays and maps, and references to other
// documents become strings unless Config.ResolveExternalRefs is set. Each
// such decision is reported in Result.Warnings and logged through
// Config.Logger.
//
// Typical usage:
//
//	res, err := jsonschema2avro.ConvertFile(ctx, "order.json", jsonschema2avro.Config{
//		Namespace: "com.example.orders",
//	})
//	if err != nil {
//		return err
//	}
//	out, err := res.MarshalIndent()
package jsonschema2avro
