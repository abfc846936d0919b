// Package listing joins a folder's URL manifest and agent record into one
// validated, workbook-ready listing.
package listing

import (
	"github.com/shopspring/decimal"
)

// Listing is one eBay-ready row. Instances only exist after the joiner has
// validated every field; once appended to a workbook they are immutable and
// corrections go through a new run with an explicit conflict policy.
type Listing struct {
	// FolderID is the source folder name and doubles as the workbook's
	// custom label (SKU). Unique per workbook.
	FolderID        string
	Title           string
	Author          string
	BookTitle       string
	Price           decimal.Decimal
	ConditionID     string
	DescriptionHTML string
	// PhotoURLs preserves manifest order; the first URL is the primary photo.
	PhotoURLs []string
}
