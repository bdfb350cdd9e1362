package httpx

// CurrentPage identifiers shared by handlers and templates.
const (
	PageLogin      = "login"
	PageDash       = "dash"
	PageManagement = "management"
	PageCreateUser = "create-user"
	PageEditUsers  = "edit-users"
	PageEditUser   = "edit-user"
)

// Template paths used for loading templates in tests and from disk in dev mode.
const (
	TemplatePathFromRoot = "frontend/templates"
	TemplatePathFromTest = "../../frontend/templates" // from internal/http test files
	StaticPathFromRoot   = "frontend/static"
)

//nolint:gochecknoglobals // static read-only lookup
var contentTemplates = map[string]string{
	PageLogin:      "login-content",
	PageDash:       "dash-content",
	PageManagement: "management-content",
	PageCreateUser: "create-user-content",
	PageEditUsers:  "edit-users-content",
	PageEditUser:   "edit-user-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Unknown pages fall back to the login form.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "login-content"
}
