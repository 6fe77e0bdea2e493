package seeder

import "hireflow/internal/config"

// Defaults returns the seeders for `migrate --seed`. Demo data is opt-in.
func Defaults(admin config.AdminConfig, demo bool) []Seeder {
	out := []Seeder{
		AdminSeeder{Email: admin.Email, Password: admin.Password, FullName: admin.FullName},
	}
	if demo {
		out = append(out, DemoSeeder{})
	}
	return out
}
