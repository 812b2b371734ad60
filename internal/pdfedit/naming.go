package pdfedit

import (
	"path/filepath"
	"regexp"
)

var pdfExt = regexp.MustCompile(`(?i)\.pdf$`)

var outputSuffix = map[string]string{
	OpDelete:  "_edited",
	OpExtract: "_extracted",
	OpReorder: "_reordered",
	OpRotate:  "_rotated",
}

// OutputName derives the download name for the result of op applied to input.
// Merge results are always named merged.pdf.
func OutputName(op, input string) string {
	if op == OpMerge {
		return "merged.pdf"
	}
	suffix, ok := outputSuffix[op]
	if !ok {
		suffix = "_" + op
	}
	if input == "" || input == "-" {
		input = "document.pdf"
	}
	base := filepath.Base(input)
	if !pdfExt.MatchString(base) {
		return base + suffix + ".pdf"
	}
	return pdfExt.ReplaceAllString(base, suffix+".pdf")
}
