package user // import "github.com/CarlosBertoldo/acervo-educacional/user"

// SampleAdminEmail is the login of the built-in administrator.
const SampleAdminEmail = "admin@acervoeducacional.com"

// SampleUsers returns the built-in credential records.
func SampleUsers() []Details {
	return []Details{
		{
			ID:       1,
			Email:    SampleAdminEmail,
			Name:     "Administrador",
			Password: "Admin@123",
			IsAdmin:  true,
		},
	}
}
