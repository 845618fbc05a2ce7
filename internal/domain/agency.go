package domain

// AppearancePreference user choice for the color scheme.
type AppearancePreference string

const (
	AppearanceLight  AppearancePreference = "light"
	AppearanceDark   AppearancePreference = "dark"
	AppearanceSystem AppearancePreference = "system"
)

func (a AppearancePreference) Valid() bool {
	switch a {
	case AppearanceLight, AppearanceDark, AppearanceSystem:
		return true
	}
	return false
}

// AgencyConfig single-agency settings persisted under the "config" key.
type AgencyConfig struct {
	Name         string               `json:"name"`
	ThemeID      string               `json:"themeId"`
	LogoText     string               `json:"logoText"`
	ContactPhone string               `json:"contactPhone"`
	Appearance   AppearancePreference `json:"appearance"`
}
