// Package pdftest assembles small but structurally valid PDF files for
// exercising text and annotation extraction in tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Page describes one page of the generated document.
type Page struct {
	// Text is drawn as a single line with the built-in Helvetica font.
	Text string
	// LinkURIs become Link annotations in order.
	LinkURIs []string
	// IndirectLinks stores each annotation as its own object referenced
	// from the Annots array instead of an inline dictionary.
	IndirectLinks bool
}

// Build renders the pages into a complete PDF byte buffer with a valid
// cross-reference table.
func Build(pages ...Page) []byte {
	const (
		catalogNum = 1
		pagesNum   = 2
		fontNum    = 3
	)

	bodies := map[int]string{}
	next := fontNum + 1
	alloc := func() int {
		n := next
		next++
		return n
	}

	var kids []string
	for _, page := range pages {
		contentNum := alloc()
		bodies[contentNum] = contentStream(page.Text)

		var annots []string
		for _, uri := range page.LinkURIs {
			dict := linkAnnotation(uri)
			if page.IndirectLinks {
				annotNum := alloc()
				bodies[annotNum] = dict
				annots = append(annots, fmt.Sprintf("%d 0 R", annotNum))
			} else {
				annots = append(annots, dict)
			}
		}

		pageNum := alloc()
		var b strings.Builder
		fmt.Fprintf(&b, "<< /Type /Page /Parent %d 0 R /MediaBox [0 0 612 792] ", pagesNum)
		fmt.Fprintf(&b, "/Resources << /Font << /F1 %d 0 R >> >> ", fontNum)
		fmt.Fprintf(&b, "/Contents %d 0 R", contentNum)
		if len(annots) > 0 {
			fmt.Fprintf(&b, " /Annots [ %s ]", strings.Join(annots, " "))
		}
		b.WriteString(" >>")
		bodies[pageNum] = b.String()
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNum))
	}

	bodies[catalogNum] = fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesNum)
	bodies[pagesNum] = fmt.Sprintf("<< /Type /Pages /Kids [ %s ] /Count %d >>", strings.Join(kids, " "), len(pages))
	bodies[fontNum] = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	total := next - 1
	offsets := make([]int, total+1)
	for num := 1; num <= total; num++ {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, bodies[num])
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", total+1)
	buf.WriteString("0000000000 65535 f \n")
	for num := 1; num <= total; num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", total+1, catalogNum, xrefOffset)
	return buf.Bytes()
}

func contentStream(text string) string {
	var stream string
	if text != "" {
		stream = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escapeString(text))
	}
	return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream)
}

func linkAnnotation(uri string) string {
	return fmt.Sprintf("<< /Type /Annot /Subtype /Link /Rect [0 700 200 720] /A << /S /URI /URI (%s) >> >>", escapeString(uri))
}

func escapeString(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)
	return replacer.Replace(s)
}
