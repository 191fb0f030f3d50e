// Package attachment implements the attachment resolution pipeline: metadata
// extraction, filename sanitizing, download URL resolution and lexical URL
// quality classification.
//
// The package operates on the Handle capability interface, which abstracts
// one attachment's presentation (a Gmail API part, a parsed HTML card, or a
// test double). All extraction steps are best-effort: a field that cannot be
// read is left empty rather than failing the attachment, and only a fully
// failed URL resolution is reported as an error.
//
// Example usage:
//
//	h, err := attachment.NewCardHandle(cardHTML)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ex := &attachment.Extractor{}
//	md := ex.Extract(ctx, h, 0)
//
//	r := &attachment.Resolver{}
//	res, err := r.Resolve(ctx, h, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.URL, md.Filename)
package attachment
