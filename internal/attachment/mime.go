package attachment

import "strings"

// mimeTypesByExtension maps lowercase file extensions to MIME types for the
// formats commonly seen as email attachments. The table is deliberately
// static: the declared type is inferred from the filename only, never
// sniffed from content.
var mimeTypesByExtension = map[string]string{
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"svg":  "image/svg+xml",
	"webp": "image/webp",
	"txt":  "text/plain",
	"csv":  "text/csv",
	"html": "text/html",
	"htm":  "text/html",
	"zip":  "application/zip",
	"rar":  "application/x-rar-compressed",
	"7z":   "application/x-7z-compressed",
	"tar":  "application/x-tar",
	"gz":   "application/gzip",
	"mp3":  "audio/mpeg",
	"mp4":  "video/mp4",
	"avi":  "video/x-msvideo",
	"mov":  "video/quicktime",
	"json": "application/json",
	"xml":  "application/xml",
}

// MimeTypeForExtension returns the MIME type for a file extension, with or
// without a leading dot. Unknown extensions yield the empty string.
func MimeTypeForExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	return mimeTypesByExtension[ext]
}

// MimeTypeForFilename infers a MIME type from the extension of filename.
// Files without an extension yield the empty string.
func MimeTypeForFilename(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 {
		return ""
	}
	return MimeTypeForExtension(filename[i+1:])
}
