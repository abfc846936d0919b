package listing

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"bindery/internal/agentout"
	"bindery/internal/config"
	"bindery/internal/manifest"
	"bindery/internal/services"
)

// catalogFieldLimit caps the C:Author / C:Book Title columns.
const catalogFieldLimit = 50

const fallbackTitle = "Untitled Listing"

// Joiner produces exactly one validated Listing from one manifest plus one
// agent record, or fails explaining why. Join is all-or-nothing: no partial
// listing ever escapes a validation failure.
type Joiner struct {
	conditions ConditionSet
	titleLimit int
	validate   *validator.Validate
}

// NewJoiner builds a joiner from the configured condition enumeration and
// title limit.
func NewJoiner(cfg *config.Config) *Joiner {
	return &Joiner{
		conditions: NewConditionSet(cfg.Listing.ApprovedConditionIDs),
		titleLimit: cfg.Processing.TitleLimit,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Join validates the raw inputs and assembles the listing.
func (j *Joiner) Join(m manifest.Manifest, rec agentout.Record) (Listing, error) {
	if m.Folder == "" || rec.Folder == "" || m.Folder != rec.Folder {
		return Listing{}, services.Validationf("folder_id", "manifest folder %q and agent record folder %q do not match", m.Folder, rec.Folder)
	}

	price, err := j.parsePrice(rec.Price)
	if err != nil {
		return Listing{}, err
	}

	if !j.conditions.Contains(rec.ConditionID) {
		return Listing{}, services.Validationf("condition_id", "%q is not in the approved set %v", rec.ConditionID, j.conditions.IDs())
	}

	urls, err := j.photoURLs(m)
	if err != nil {
		return Listing{}, err
	}

	author, bookTitle := ExtractMetadata(rec.DescriptionHTML)
	title := bookTitle
	if title == "" {
		title = fallbackTitle
	}

	return Listing{
		FolderID:        m.Folder,
		Title:           Truncate(title, j.titleLimit),
		Author:          Truncate(author, catalogFieldLimit),
		BookTitle:       Truncate(bookTitle, catalogFieldLimit),
		Price:           price,
		ConditionID:     rec.ConditionID,
		DescriptionHTML: rec.DescriptionHTML,
		PhotoURLs:       urls,
	}, nil
}

func (j *Joiner) parsePrice(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Decimal{}, services.Validationf("price", "missing")
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, services.Validationf("price", "%q is not numeric", raw)
	}
	if !price.IsPositive() {
		return decimal.Decimal{}, services.Validationf("price", "must be positive, got %s", price.String())
	}
	return price, nil
}

func (j *Joiner) photoURLs(m manifest.Manifest) ([]string, error) {
	if len(m.Entries) == 0 {
		return nil, services.Validationf("photo_urls", "manifest for %q has no image URLs", m.Folder)
	}
	urls := m.URLs()
	for i, url := range urls {
		if err := j.validate.Var(url, "url"); err != nil {
			return nil, services.Validationf("photo_urls", "entry %d (%s): %q is not a valid URL", i+1, m.Entries[i].Filename, fmt.Sprintf("%.80s", url))
		}
	}
	return urls, nil
}
