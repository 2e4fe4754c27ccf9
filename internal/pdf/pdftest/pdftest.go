// Package pdftest builds small text-only PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Build returns a PDF with one page per element of pages. Each string of a
// page is drawn on its own baseline, top to bottom, in Helvetica.
func Build(pages ...[]string) []byte {
	return build(showText, pages)
}

// BuildKerned is like Build but draws every line with a TJ array that
// splits the text into two-character runs separated by kerning offsets,
// the way typesetting software emits tracked text.
func BuildKerned(pages ...[]string) []byte {
	return build(showKerned, pages)
}

func showText(line string) string {
	return fmt.Sprintf("(%s) Tj", escape(line))
}

func showKerned(line string) string {
	r := []rune(line)
	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < len(r); i += 2 {
		end := min(i+2, len(r))
		if i > 0 {
			b.WriteString(" -12 ")
		}
		fmt.Fprintf(&b, "(%s)", escape(string(r[i:end])))
	}
	b.WriteString("] TJ")
	return b.String()
}

func build(show func(string) string, pages [][]string) []byte {
	var objects []string

	// 1: catalog, 2: pages, 3: font, then page/content pairs
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	)

	for i, lines := range pages {
		var content strings.Builder
		y := 760
		for _, line := range lines {
			fmt.Fprintf(&content, "BT /F1 10 Tf 40 %d Td %s ET\n", y, show(line))
			y -= 14
		}
		stream := content.String()

		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(stream), stream),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
