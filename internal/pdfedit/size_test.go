package pdfedit

import "testing"

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1280, "1.3 KB"},
		{3328, "3.3 KB"},
		{1075, "1.0 KB"},
		{1076, "1.1 KB"},
		{1024*1024 - 1, "1024.0 KB"},
		{1024 * 1024, "1.0 MB"},
		{5*1024*1024 + 512*1024, "5.5 MB"},
		{1024*1024 + 256*1024, "1.3 MB"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.in); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		op, input, want string
	}{
		{OpDelete, "notes.pdf", "notes_edited.pdf"},
		{OpExtract, "/tmp/Lecture 3.PDF", "Lecture 3_extracted.pdf"},
		{OpReorder, "s3://bucket/a/b.pdf", "b_reordered.pdf"},
		{OpRotate, "scan", "scan_rotated.pdf"},
		{OpMerge, "whatever.pdf", "merged.pdf"},
		{OpRotate, "-", "document_rotated.pdf"},
	}
	for _, tt := range tests {
		if got := OutputName(tt.op, tt.input); got != tt.want {
			t.Errorf("OutputName(%q, %q) = %q, want %q", tt.op, tt.input, got, tt.want)
		}
	}
}
