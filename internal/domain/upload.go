package domain

// UploadedItem is one user-supplied image that has not been sent upstream
// yet. The raw content is owned by the upload intake until an encoder borrows
// it read-only for a submit.
type UploadedItem struct {
	// ID is unique within the owning item list. Derived from the filename
	// and submission time, with a random suffix so identically named files
	// submitted in the same instant still get distinct IDs.
	ID       string
	Filename string
	Data     []byte
	MIMEType string
	// PreviewKey locates the displayable preview in the preview store. It
	// must be released when the item is removed or superseded.
	PreviewKey string
}
