// Package seed populates a store with the baseline catalog (cities, agents,
// services, the admin account) and optional fake demo listings for
// development and the in-process backend.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"propertyadda/internal/middleware"
	"propertyadda/internal/models"
	"propertyadda/internal/storage"

	"github.com/brianvoe/gofakeit/v6"
	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var dataYAML []byte

// Options configuration for the seeder.
type Options struct {
	// DemoUsers and DemoProperties control how much fake demo data is
	// generated on top of the baseline catalog. Zero means catalog only.
	DemoUsers      int
	DemoProperties int
}

type baseline struct {
	Admin struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Email    string `yaml:"email"`
		FullName string `yaml:"fullName"`
		Phone    string `yaml:"phone"`
	} `yaml:"admin"`
	Cities   []models.InsertCity    `yaml:"cities"`
	Agents   []models.InsertAgent   `yaml:"agents"`
	Services []models.InsertService `yaml:"services"`
}

// Seed loads the baseline catalog and, when requested, fake demo data. It
// goes through the Store contract so it works identically against the
// relational and in-process backends, and it is safe to run more than once:
// rows that already exist are left alone.
func Seed(ctx context.Context, store storage.Store, opts Options) error {
	var data baseline
	if err := yaml.Unmarshal(dataYAML, &data); err != nil {
		return fmt.Errorf("failed to parse embedded seed data: %w", err)
	}

	if err := seedAdmin(ctx, store, data); err != nil {
		return err
	}
	if err := seedCatalog(ctx, store, data); err != nil {
		return err
	}

	if opts.DemoUsers > 0 {
		users, err := seedDemoUsers(ctx, store, opts.DemoUsers)
		if err != nil {
			return err
		}
		if opts.DemoProperties > 0 && len(users) > 0 {
			if err := seedDemoProperties(ctx, store, users, data.Cities, opts.DemoProperties); err != nil {
				return err
			}
		}
	}

	middleware.Logger.Info("Seeding completed")
	return nil
}

func seedAdmin(ctx context.Context, store storage.Store, data baseline) error {
	existing, err := store.GetUserByUsername(ctx, data.Admin.Username)
	if err != nil {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}
	if existing == nil {
		if _, err := store.CreateUser(ctx, models.InsertUser{
			Username: data.Admin.Username,
			Password: data.Admin.Password,
			Email:    data.Admin.Email,
			FullName: data.Admin.FullName,
			Phone:    data.Admin.Phone,
		}); err != nil {
			return fmt.Errorf("failed to create admin account: %w", err)
		}
	}

	// Registration always yields a regular user; promotion happens out of
	// band through the role extension.
	roles, ok := store.(storage.RoleSetter)
	if !ok {
		return fmt.Errorf("store does not support role changes, cannot provision admin")
	}
	if err := roles.SetUserRole(ctx, data.Admin.Username, models.RoleAdmin); err != nil {
		return fmt.Errorf("failed to promote admin account: %w", err)
	}

	middleware.Logger.Info("Admin account ready", slog.String("username", data.Admin.Username))
	return nil
}

func seedCatalog(ctx context.Context, store storage.Store, data baseline) error {
	existingCities, err := store.ListCities(ctx)
	if err != nil {
		return fmt.Errorf("failed to list cities: %w", err)
	}
	haveCity := make(map[string]bool, len(existingCities))
	for _, c := range existingCities {
		haveCity[strings.ToLower(c.Name)] = true
	}
	for _, c := range data.Cities {
		if haveCity[strings.ToLower(c.Name)] {
			continue
		}
		if _, err := store.CreateCity(ctx, c); err != nil {
			return fmt.Errorf("failed to seed city %q: %w", c.Name, err)
		}
	}

	existingAgents, err := store.ListAgents(ctx)
	if err != nil {
		return fmt.Errorf("failed to list agents: %w", err)
	}
	haveAgent := make(map[string]bool, len(existingAgents))
	for _, a := range existingAgents {
		haveAgent[a.Name] = true
	}
	for _, a := range data.Agents {
		if haveAgent[a.Name] {
			continue
		}
		if _, err := store.CreateAgent(ctx, a); err != nil {
			return fmt.Errorf("failed to seed agent %q: %w", a.Name, err)
		}
	}

	existingServices, err := store.ListServices(ctx)
	if err != nil {
		return fmt.Errorf("failed to list services: %w", err)
	}
	haveService := make(map[string]bool, len(existingServices))
	for _, s := range existingServices {
		haveService[strings.ToLower(s.Name)] = true
	}
	for _, s := range data.Services {
		if haveService[strings.ToLower(s.Name)] {
			continue
		}
		if _, err := store.CreateService(ctx, s); err != nil {
			return fmt.Errorf("failed to seed service %q: %w", s.Name, err)
		}
	}

	middleware.Logger.Info("Catalog seeded",
		slog.Int("cities", len(data.Cities)),
		slog.Int("agents", len(data.Agents)),
		slog.Int("services", len(data.Services)),
	)
	return nil
}

func seedDemoUsers(ctx context.Context, store storage.Store, count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i)
		user, err := store.CreateUser(ctx, models.InsertUser{
			Username: username,
			Password: "password123",
			Email:    fmt.Sprintf("%s@example.com", username),
			FullName: gofakeit.Name(),
			Phone:    gofakeit.Phone(),
		})
		if err != nil {
			// Re-running against an already seeded store hits duplicates;
			// they are not worth aborting over.
			middleware.Logger.Warn("Skipping demo user",
				slog.String("username", username), slog.String("error", err.Error()))
			continue
		}
		users = append(users, *user)
	}
	middleware.Logger.Info("Demo users created", slog.Int("count", len(users)))
	return users, nil
}

func seedDemoProperties(ctx context.Context, store storage.Store, users []models.User, cities []models.InsertCity, count int) error {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(gofakeit.Int64()))

	features := []string{
		"Parking", "Lift", "Power Backup", "24x7 Security", "Park Facing",
		"Vastu Compliant", "Gated Community", "Swimming Pool", "Gym", "Club House",
	}

	created := 0
	for i := 0; i < count; i++ {
		user := users[r.Intn(len(users))]
		city := cities[r.Intn(len(cities))].Name
		ptype := models.PropertyTypes[r.Intn(len(models.PropertyTypes))]
		status := models.PropertyStatuses[r.Intn(len(models.PropertyStatuses))]
		locality := gofakeit.StreetName() + " Nagar"

		price := gofakeit.Number(8, 250) * 100000
		if status == models.StatusForRent {
			price = gofakeit.Number(8, 120) * 1000
		}

		picked := make(models.StringList, 0, 4)
		for _, f := range features {
			if r.Float32() < 0.35 {
				picked = append(picked, f)
			}
		}

		in := models.InsertProperty{
			Title:       fmt.Sprintf("%d BHK %s in %s", r.Intn(4)+1, ptype, locality),
			Description: gofakeit.Paragraph(1, 3, 12, " "),
			Price:       price,
			Type:        ptype,
			Status:      status,
			Bedrooms:    r.Intn(5),
			Bathrooms:   r.Intn(4),
			Area:        gofakeit.Number(450, 4500),
			City:        city,
			Locality:    locality,
			Address:     fmt.Sprintf("%s, %s, %s", gofakeit.Street(), locality, city),
			Features:    picked,
			Images: models.StringList{
				fmt.Sprintf("https://picsum.photos/seed/%d/1200/800", r.Intn(10000)),
			},
			UserID:   user.ID,
			Featured: r.Float32() < 0.2,
		}
		if _, err := store.CreateProperty(ctx, in); err != nil {
			return fmt.Errorf("failed to seed property: %w", err)
		}
		created++
	}

	middleware.Logger.Info("Demo properties created", slog.Int("count", created))
	return nil
}
