package domain

// PageType classifies a bill page. The set is closed.
type PageType string

const (
	PageTypeBillDetail PageType = "Bill Detail"
	PageTypeFinalBill  PageType = "Final Bill"
	PageTypePharmacy   PageType = "Pharmacy"
)

// AllowedPageTypes lists every accepted PageType.
var AllowedPageTypes = map[PageType]bool{
	PageTypeBillDetail: true,
	PageTypeFinalBill:  true,
	PageTypePharmacy:   true,
}

// NormalizePageType maps an LLM-provided page type onto the closed set.
// Anything unrecognized, including non-string values, becomes PageTypeBillDetail.
func NormalizePageType(v any) PageType {
	s, ok := v.(string)
	if !ok {
		return PageTypeBillDetail
	}
	if pt := PageType(s); AllowedPageTypes[pt] {
		return pt
	}
	return PageTypeBillDetail
}

// SupportedImageExtensions are the file extensions treated as images when
// sniffing a downloaded document.
var SupportedImageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
	"tiff": true,
	"bmp":  true,
	"jfif": true,
}
