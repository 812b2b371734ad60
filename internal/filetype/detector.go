package filetype

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

// PDFMIMEType is the only type accepted as editor input.
const PDFMIMEType = "application/pdf"

// FileTypeInfo contains detected file type information
type FileTypeInfo struct {
	MIMEType    string
	Extension   string
	IsPDF       bool
	Description string
}

// Detect detects the file type of data using magic bytes.
func Detect(data []byte) *FileTypeInfo {
	mtype := mimetype.Detect(data)
	info := &FileTypeInfo{
		MIMEType:  mtype.String(),
		Extension: mtype.Extension(),
		IsPDF:     mtype.Is(PDFMIMEType),
	}
	classify(info, len(data))
	log.Debug().Str("mime", info.MIMEType).Int("size", len(data)).Bool("pdf", info.IsPDF).Msg("detected file type")
	return info
}

// DetectFile is like Detect but reads the header of a file on disk.
func DetectFile(path string) (*FileTypeInfo, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to detect file type: %w", err)
	}
	info := &FileTypeInfo{
		MIMEType:  mtype.String(),
		Extension: mtype.Extension(),
		IsPDF:     mtype.Is(PDFMIMEType),
	}
	classify(info, -1)
	return info, nil
}

// classify fills a human readable description, used in rejection messages.
func classify(info *FileTypeInfo, size int) {
	mimeType := info.MIMEType
	switch {
	case size == 0:
		info.Description = "empty input"
	case info.IsPDF:
		info.Description = "PDF document"
	case strings.HasPrefix(mimeType, "image/"):
		info.Description = fmt.Sprintf("image (%s), convert it to PDF first", mimeType)
	case mimeType == "application/zip",
		strings.HasPrefix(mimeType, "application/vnd.openxmlformats-officedocument"),
		strings.HasPrefix(mimeType, "application/vnd.oasis.opendocument"),
		mimeType == "application/msword",
		mimeType == "application/x-ole-storage":
		info.Description = fmt.Sprintf("office or archive file (%s), export it as PDF first", mimeType)
	case strings.HasPrefix(mimeType, "text/"):
		info.Description = fmt.Sprintf("text file (%s)", mimeType)
	default:
		info.Description = fmt.Sprintf("unsupported file type: %s", mimeType)
	}
}
