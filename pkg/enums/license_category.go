package enums

// LicenseCategory is the fixed catalog of subscription services a listing may
// advertise. Unknown input normalizes to Other rather than failing validation,
// matching the storefront's category picker.
type LicenseCategory string

const (
	CategoryNetflix       LicenseCategory = "Netflix"
	CategoryHotstar       LicenseCategory = "Hotstar"
	CategoryAmazonPrime   LicenseCategory = "Amazon Prime"
	CategoryJioCinema     LicenseCategory = "JioCinema"
	CategorySonyLIV       LicenseCategory = "Sony LIV"
	CategoryZEE5          LicenseCategory = "ZEE5"
	CategoryYouTube       LicenseCategory = "YouTube Premium"
	CategorySpotify       LicenseCategory = "Spotify"
	CategoryAppleMusic    LicenseCategory = "Apple Music"
	CategoryMicrosoft365  LicenseCategory = "Microsoft 365"
	CategoryGoogleWS      LicenseCategory = "Google Workspace"
	CategoryCanvaPro      LicenseCategory = "Canva Pro"
	CategoryAdobeCC       LicenseCategory = "Adobe Creative Cloud"
	CategoryNotionPro     LicenseCategory = "Notion Pro"
	CategoryFigmaPro      LicenseCategory = "Figma Pro"
	CategoryGitHubCopilot LicenseCategory = "GitHub Copilot"
	CategoryChatGPTPlus   LicenseCategory = "ChatGPT Plus"
	CategoryUdemy         LicenseCategory = "Udemy"
	CategoryUnacademy     LicenseCategory = "Unacademy"
	CategoryOther         LicenseCategory = "Other"
)

var validLicenseCategories = []LicenseCategory{
	CategoryNetflix,
	CategoryHotstar,
	CategoryAmazonPrime,
	CategoryJioCinema,
	CategorySonyLIV,
	CategoryZEE5,
	CategoryYouTube,
	CategorySpotify,
	CategoryAppleMusic,
	CategoryMicrosoft365,
	CategoryGoogleWS,
	CategoryCanvaPro,
	CategoryAdobeCC,
	CategoryNotionPro,
	CategoryFigmaPro,
	CategoryGitHubCopilot,
	CategoryChatGPTPlus,
	CategoryUdemy,
	CategoryUnacademy,
	CategoryOther,
}

// String implements fmt.Stringer.
func (c LicenseCategory) String() string {
	return string(c)
}

// IsValid reports whether the value matches a catalog category.
func (c LicenseCategory) IsValid() bool {
	for _, candidate := range validLicenseCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// NormalizeLicenseCategory maps raw input onto the catalog, falling back to Other.
func NormalizeLicenseCategory(value string) LicenseCategory {
	for _, candidate := range validLicenseCategories {
		if string(candidate) == value {
			return candidate
		}
	}
	return CategoryOther
}
