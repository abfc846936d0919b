package workbook

import (
	"strings"

	"bindery/internal/config"
	"bindery/internal/listing"
)

// SheetName is the single worksheet listings are written to.
const SheetName = "Listings"

// actionHeader is the File Exchange action column; every generated row is an
// "Add".
const actionHeader = "*Action(SiteID=US|Country=US|Currency=USD|Version=1193)"

// Headers is the fixed, order-significant column schema. Downstream File
// Exchange ingestion is position-sensitive: never reorder, and keep the
// reserved trailing columns in place even though the pipeline leaves them
// blank for manual enrichment.
var Headers = []string{
	actionHeader,
	"Custom label (SKU)",
	"Title",
	"Start price",
	"Quantity",
	"Item photo URL",
	"Condition ID",
	"Category ID",
	"Category name",
	"Location",
	"Format",
	"Duration",
	"Shipping profile name",
	"Return profile name",
	"Payment profile name",
	"Description",
	"C:Author",
	"C:Book Title",
	"C:Language",
	// reserved
	"P:ISBN",
	"C:Publisher",
	"C:Publication Year",
	"C:Edition",
	"C:Topic",
}

// reservedColumns counts the trailing headers the pipeline never populates.
const reservedColumns = 5

// folderIDColumn is the zero-based index of the custom label column that
// carries the folder ID.
const folderIDColumn = 1

// photoURLSeparator joins multiple photo URLs inside the single photo cell,
// matching File Exchange's multi-photo convention.
const photoURLSeparator = "|"

// rowValues renders a listing plus the constant policy fields into cell
// values ordered by Headers. Reserved columns are emitted as empty strings so
// the row always spans the full schema width.
func rowValues(l listing.Listing, policy config.Listing) []interface{} {
	values := []interface{}{
		"Add",
		l.FolderID,
		listing.NormalizeText(l.Title),
		l.Price.InexactFloat64(),
		policy.Quantity,
		strings.Join(l.PhotoURLs, photoURLSeparator),
		l.ConditionID,
		policy.CategoryID,
		policy.CategoryName,
		policy.Location,
		policy.Format,
		policy.Duration,
		policy.ShippingProfile,
		policy.ReturnProfile,
		policy.PaymentProfile,
		l.DescriptionHTML,
		listing.NormalizeText(l.Author),
		listing.NormalizeText(l.BookTitle),
		policy.Language,
	}
	for i := 0; i < reservedColumns; i++ {
		values = append(values, "")
	}
	return values
}
