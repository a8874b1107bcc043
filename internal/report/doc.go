// Package report assembles the single-page reflection report.
//
// Render is a pure function: it takes everything a page view needs (the
// loaded survey table or the load error, the schema, which optional images
// exist, and the state of the feedback form) and returns a View. It performs
// no I/O and keeps no state between calls, so the same Inputs always produce
// the same View. Loading files and probing images is the caller's job.
//
// Narrative text is kept as Markdown. The HTTP layer converts it to HTML and
// the CLI renders it for the terminal; Markdown(view) produces the whole
// report as one document.
package report
