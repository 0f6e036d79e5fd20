// Package paper turns a research paper into priority-ordered chunks.
//
// The section scanner walks the document line by line looking for
// heading-like lines: short (at most MaxHeadingLen characters) and
// matching one of an ordered set of canonical section-name patterns. Each
// detected heading opens a section unit spanning to the next heading or
// the end of the document. A document with no detectable headings becomes
// one synthetic container unit and is left to the packer's paragraph
// splitter.
//
//	doc, err := paper.ReadDocument("paper.pdf")
//	res, err := paper.New().Run(doc, packer.Options{Budget: 3500, Order: packer.OrderPriority})
//
// PDF text extraction produces per-page markers ("[PAGE n]") so chunk
// content remains traceable to the source pages. Plain-text and markdown
// documents are ingested as-is.
package paper
