// Command seed-db prepares a database for local development: it runs
// migrations, loads the menu from a JSON file, and seeds tables, demo
// customers, staff, discount codes, and API keys.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/varun0122/Restaurant-Management/internal/handler"
	"github.com/varun0122/Restaurant-Management/internal/repository"
)

type dishJSON struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	FoodType    string          `json:"food_type"`
	IsSpecial   bool            `json:"is_special"`
}

func main() {
	var (
		databaseURL  string
		menuFile     string
		adminKey     string
		staffKey     string
		customerKey  string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&menuFile, "menu-file", "db/seed/menu.json", "path to menu JSON file")
	flag.StringVar(&adminKey, "admin-key", "", "admin API key to seed (or RESTO_SEED_ADMIN_KEY env)")
	flag.StringVar(&staffKey, "staff-key", "", "staff API key to seed (or RESTO_SEED_STAFF_KEY env)")
	flag.StringVar(&customerKey, "customer-key", "", "customer API key to seed, bound to a demo customer (or RESTO_SEED_CUSTOMER_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or RESTO_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminKey == "" {
		adminKey = os.Getenv("RESTO_SEED_ADMIN_KEY")
	}
	if adminKey == "" {
		slog.Error("admin API key is required: set --admin-key or RESTO_SEED_ADMIN_KEY")
		os.Exit(1)
	}
	if staffKey == "" {
		staffKey = os.Getenv("RESTO_SEED_STAFF_KEY")
	}
	if customerKey == "" {
		customerKey = os.Getenv("RESTO_SEED_CUSTOMER_KEY")
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("RESTO_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	seedKeys := seedKeySet{admin: adminKey, staff: staffKey, customer: customerKey, pepper: apiKeyPepper}
	if err := run(ctx, databaseURL, menuFile, seedKeys); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

type seedKeySet struct {
	admin    string
	staff    string
	customer string
	pepper   string
}

func run(ctx context.Context, databaseURL, menuFile string, keys seedKeySet) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedMenu(ctx, pool, menuFile); err != nil {
		return errors.Wrap(err, "seed menu")
	}

	// API keys reference demo customers, so customers go first.
	if err := seedCustomers(ctx, pool); err != nil {
		return errors.Wrap(err, "seed customers")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return seedTables(gctx, pool, 12) })
	g.Go(func() error { return seedStaff(gctx, pool) })
	g.Go(func() error { return seedDiscounts(gctx, pool) })
	g.Go(func() error { return seedAPIKeys(gctx, pool, keys) })
	return g.Wait()
}

func seedMenu(ctx context.Context, pool *pgxpool.Pool, menuFile string) error {
	slog.Info("reading menu file", slog.String("path", menuFile))

	data, err := os.ReadFile(menuFile)
	if err != nil {
		return errors.Wrap(err, "read menu file")
	}

	var dishes []dishJSON
	if err := json.Unmarshal(data, &dishes); err != nil {
		return errors.Wrap(err, "parse menu JSON")
	}

	slog.Info("upserting dishes", slog.Int("count", len(dishes)))

	for _, d := range dishes {
		var categoryID int64
		err := pool.QueryRow(ctx,
			`INSERT INTO categories (name) VALUES ($1)
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`,
			d.Category,
		).Scan(&categoryID)
		if err != nil {
			return errors.Wrapf(err, "upsert category %s", d.Category)
		}

		foodType := d.FoodType
		if foodType == "" {
			foodType = "veg"
		}

		tag, err := pool.Exec(ctx,
			`UPDATE dishes SET description = $2, price = $3, category_id = $4, food_type = $5, is_special = $6
			 WHERE name = $1`,
			d.Name, d.Description, d.Price, categoryID, foodType, d.IsSpecial,
		)
		if err != nil {
			return errors.Wrapf(err, "update dish %s", d.Name)
		}
		if tag.RowsAffected() == 0 {
			_, err = pool.Exec(ctx,
				`INSERT INTO dishes (name, description, price, category_id, food_type, is_special)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				d.Name, d.Description, d.Price, categoryID, foodType, d.IsSpecial,
			)
			if err != nil {
				return errors.Wrapf(err, "insert dish %s", d.Name)
			}
		}

		slog.Info("upserted dish", slog.String("name", d.Name), slog.String("category", d.Category))
	}

	return nil
}

func seedTables(ctx context.Context, pool *pgxpool.Pool, count int) error {
	slog.Info("seeding dining tables", slog.Int("count", count))

	for n := 1; n <= count; n++ {
		if _, err := pool.Exec(ctx,
			`INSERT INTO tables (number) VALUES ($1) ON CONFLICT (number) DO NOTHING`, n,
		); err != nil {
			return errors.Wrapf(err, "insert table %d", n)
		}
	}
	return nil
}

func seedCustomers(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding demo customers")

	customers := []struct {
		id    string
		phone string
		coins int
	}{
		{id: "demo-aarav", phone: "9800000001", coins: 250},
		{id: "demo-priya", phone: "9800000002", coins: 40},
		{id: "demo-rahul", phone: "9800000003", coins: 0},
	}
	for _, c := range customers {
		if _, err := pool.Exec(ctx,
			`INSERT INTO customers (id, phone, loyalty_coins) VALUES ($1, $2, $3)
			 ON CONFLICT (id) DO UPDATE SET phone = EXCLUDED.phone`,
			c.id, c.phone, c.coins,
		); err != nil {
			return errors.Wrapf(err, "upsert customer %s", c.id)
		}
	}
	return nil
}

func seedStaff(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding staff")

	members := []struct {
		username string
		phone    string
		role     string
	}{
		{username: "asha", phone: "9700000001", role: "admin"},
		{username: "vikram", phone: "9700000002", role: "kitchen"},
		{username: "meena", phone: "9700000003", role: "waitstaff"},
	}
	for _, m := range members {
		if _, err := pool.Exec(ctx,
			`INSERT INTO staff (username, phone, role) VALUES ($1, $2, $3)
			 ON CONFLICT (username) DO UPDATE SET phone = EXCLUDED.phone, role = EXCLUDED.role`,
			m.username, m.phone, m.role,
		); err != nil {
			return errors.Wrapf(err, "upsert staff %s", m.username)
		}
	}
	return nil
}

func seedDiscounts(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding discount codes")

	discounts := []struct {
		code     string
		kind     string
		value    string
		approval bool
		minimum  string
	}{
		{code: "WELCOME10", kind: "PERCENTAGE", value: "10", minimum: "0"},
		{code: "FESTIVE20", kind: "PERCENTAGE", value: "20", approval: true, minimum: "500"},
		{code: "FLAT50", kind: "FIXED", value: "50", minimum: "300"},
	}
	for _, d := range discounts {
		if _, err := pool.Exec(ctx,
			`INSERT INTO discounts (code, kind, value, requires_staff_approval, minimum_bill_amount)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (UPPER(code)) DO UPDATE SET
				kind = EXCLUDED.kind,
				value = EXCLUDED.value,
				requires_staff_approval = EXCLUDED.requires_staff_approval,
				minimum_bill_amount = EXCLUDED.minimum_bill_amount`,
			d.code, d.kind, d.value, d.approval, d.minimum,
		); err != nil {
			return errors.Wrapf(err, "upsert discount %s", d.code)
		}

		slog.Info("upserted discount", slog.String("code", d.code))
	}
	return nil
}

type apiKeySeed struct {
	id         string
	raw        string
	name       string
	scopes     []string
	customerID *string
}

func seedAPIKeys(ctx context.Context, pool *pgxpool.Pool, keys seedKeySet) error {
	slog.Info("seeding API keys")

	hasher := handler.NewSecurity(nil, []byte(keys.pepper))

	seeds := []apiKeySeed{
		{id: "admin", raw: keys.admin, name: "Admin key", scopes: []string{"admin", "staff"}},
	}
	if keys.staff != "" {
		seeds = append(seeds, apiKeySeed{id: "staff", raw: keys.staff, name: "Staff key", scopes: []string{"staff"}})
	}
	if keys.customer != "" {
		demoCustomer := "demo-aarav"
		seeds = append(seeds, apiKeySeed{
			id: "customer", raw: keys.customer, name: "Demo customer key",
			scopes: []string{"customer"}, customerID: &demoCustomer,
		})
	}

	for _, k := range seeds {
		if _, err := pool.Exec(ctx,
			`INSERT INTO api_keys (id, key_hash, name, scopes, customer_id, active)
			 VALUES ($1, $2, $3, $4, $5, TRUE)
			 ON CONFLICT (id) DO UPDATE SET
				key_hash = EXCLUDED.key_hash,
				scopes = EXCLUDED.scopes,
				customer_id = EXCLUDED.customer_id,
				active = TRUE`,
			k.id, hasher.HashKey(k.raw), k.name, k.scopes, k.customerID,
		); err != nil {
			return errors.Wrapf(err, "upsert api key %s", k.id)
		}

		slog.Info("upserted API key", slog.String("id", k.id), slog.String("name", k.name))
	}
	return nil
}
