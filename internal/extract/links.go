package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"talent-backend/internal/shared/telemetry"
)

// Links collects the hyperlink URIs embedded in Link annotations, in page
// order then in-page annotation order, deduplicated. It never fails: a
// buffer the decoder rejects yields an empty result, and a failure on one
// page is logged and skipped while remaining pages are still processed.
func Links(data []byte) []string {
	links := []string{}

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		telemetry.Error("extract.links.decode", map[string]any{"error": err.Error()})
		return links
	}

	seen := make(map[string]struct{})
	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		uris, err := pageLinks(pdfReader, pageNum)
		if err != nil {
			telemetry.Error("extract.links.page", map[string]any{
				"page":  pageNum,
				"error": err.Error(),
			})
			continue
		}
		for _, uri := range uris {
			if _, ok := seen[uri]; ok {
				continue
			}
			seen[uri] = struct{}{}
			links = append(links, uri)
		}
	}
	return links
}

// pageLinks walks one page's annotation array. The pdf package resolves
// indirect references on Key and Index lookups; malformed structures can
// make it panic, so failures are converted to an error for the caller.
func pageLinks(r *pdf.Reader, pageNum int) (uris []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			uris = nil
			err = fmt.Errorf("page %d annotations: %v", pageNum, rec)
		}
	}()

	page := r.Page(pageNum)
	if page.V.IsNull() {
		return nil, nil
	}

	annots := page.V.Key("Annots")
	if annots.Kind() != pdf.Array {
		return nil, nil
	}

	for i := 0; i < annots.Len(); i++ {
		annot := annots.Index(i)
		if annot.Kind() != pdf.Dict {
			continue
		}
		if annot.Key("Subtype").Name() != "Link" {
			continue
		}

		action := annot.Key("A")
		if action.Kind() != pdf.Dict {
			continue
		}
		if action.Key("S").Name() != "URI" {
			continue
		}

		uri := action.Key("URI")
		if uri.Kind() != pdf.String {
			continue
		}
		if raw := uri.RawString(); raw != "" {
			uris = append(uris, raw)
		}
	}
	return uris, nil
}
