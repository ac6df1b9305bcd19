package spider

// LinkExtractor finds hyperlinks in HTML documents.
type LinkExtractor interface {
	// ExtractLinks returns the unique absolute targets of anchor elements
	// in document order, resolved against baseURL. It does not filter by
	// host or scheme.
	//
	// A non-nil error is a diagnostic: the returned links are whatever
	// could be recovered from the document and remain usable.
	ExtractLinks(html string, baseURL string) ([]string, error)
}
