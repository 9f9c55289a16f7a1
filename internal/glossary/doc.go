// Package glossary models project-scoped translation terms and their
// hyphenated-key JSON interchange format.
//
// A glossary keeps character and place names consistent across chapters. The
// interchange shape is shared between file export/import and the glossary
// block embedded in translation payloads, so both sides of the wire agree on
// field naming without the in-memory model leaking out.
package glossary
