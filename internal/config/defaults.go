package config

const (
	defaultImageRoot   = "~/.local/share/bindery/batch-image-sets"
	defaultResultsDir  = "~/.local/share/bindery/batch-results"
	defaultWorkbookDir = "~/.local/share/bindery/workbooks"
	defaultLogDir      = "~/.local/share/bindery/logs"

	defaultCategoryID      = "261186"
	defaultCategoryName    = "/Books & Magazines/Books"
	defaultLocation        = "Newfields, NH"
	defaultQuantity        = 1
	defaultFormat          = "FixedPrice"
	defaultDuration        = "GTC"
	defaultShippingProfile = "USPS Media Mail"
	defaultReturnProfile   = "Returns allowed within 30 days"
	defaultPaymentProfile  = "Immediate payment managed via eBay"
	defaultLanguage        = "English"

	defaultConflictPolicy = "skip"
	defaultTitleLimit     = 60

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// defaultConditionIDs is the approved used-book condition enumeration. New
// (1000) is deliberately absent: the inventory is antiquarian stock.
var defaultConditionIDs = []string{"2750", "3000", "4000", "5000"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ImageRoot:   defaultImageRoot,
			ResultsDir:  defaultResultsDir,
			WorkbookDir: defaultWorkbookDir,
			LogDir:      defaultLogDir,
		},
		Listing: Listing{
			ApprovedConditionIDs: append([]string(nil), defaultConditionIDs...),
			CategoryID:           defaultCategoryID,
			CategoryName:         defaultCategoryName,
			Location:             defaultLocation,
			Quantity:             defaultQuantity,
			Format:               defaultFormat,
			Duration:             defaultDuration,
			ShippingProfile:      defaultShippingProfile,
			ReturnProfile:        defaultReturnProfile,
			PaymentProfile:       defaultPaymentProfile,
			Language:             defaultLanguage,
		},
		Processing: Processing{
			ConflictPolicy: defaultConflictPolicy,
			TitleLimit:     defaultTitleLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
