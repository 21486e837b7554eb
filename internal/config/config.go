package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/avelarde/gymcore/internal/model"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message;
// deployment-variant knobs are optional and default to the permissive rules.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing

	// FleetCenterID designates the center whose members manage service
	// suspension for client centers.  Zero disables the fleet-manager
	// exemption entirely.  Resolved once at startup; never derived from a
	// slug comparison at request time.
	FleetCenterID uint64

	// SlotRules holds the schedule validation variant for this deployment.
	SlotRules model.SlotRules

	// SlotCreatorRoles is the set of roles allowed to create and edit class
	// slots.  Defaults to OWNER and ADMIN; stricter deployments may add STAFF.
	SlotCreatorRoles model.RoleSet
}

// Load reads configuration values from environment variables and returns a
// Config.
func Load() Config {
	return Config{
		Env:              must("APP_ENV"),
		Port:             must("APP_PORT"),
		DBUser:           must("DB_USER"),
		DBPass:           os.Getenv("DB_PASS"), // empty allowed
		DBHost:           must("DB_HOST"),
		DBPort:           must("DB_PORT"),
		DBName:           must("DB_NAME"),
		JWTSecret:        must("JWT_SECRET"),
		AccessTTLMin:     mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:       mustInt("BCRYPT_COST"),
		FleetCenterID:    optUint("FLEET_CENTER_ID"),
		SlotRules:        loadSlotRules(),
		SlotCreatorRoles: parseRoles(getenv("SLOT_CREATOR_ROLES", "OWNER,ADMIN")),
	}
}

// loadSlotRules builds the schedule rule variant from optional env vars.
// SLOT_FIXED_DURATION_MIN pins every slot to an exact length, SLOT_WINDOW
// ("09:00-22:00") restricts slots to an operating window, and
// SLOT_CAPACITY_TIERS ("2,3") enumerates the allowed capacities.
func loadSlotRules() model.SlotRules {
	rules := model.SlotRules{
		FixedDurationMin: optInt("SLOT_FIXED_DURATION_MIN"),
	}
	if w := os.Getenv("SLOT_WINDOW"); w != "" {
		parts := strings.SplitN(w, "-", 2)
		if len(parts) != 2 {
			log.Fatalf("invalid SLOT_WINDOW: %q, expected HH:mm-HH:mm", w)
		}
		rules.WindowStart = strings.TrimSpace(parts[0])
		rules.WindowEnd = strings.TrimSpace(parts[1])
	}
	if tiers := os.Getenv("SLOT_CAPACITY_TIERS"); tiers != "" {
		for _, p := range strings.Split(tiers, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || n < 1 {
				log.Fatalf("invalid SLOT_CAPACITY_TIERS entry: %q", p)
			}
			rules.AllowedCapacities = append(rules.AllowedCapacities, n)
		}
	}
	return rules
}

func parseRoles(s string) model.RoleSet {
	set := model.RoleSet{}
	for _, p := range strings.Split(s, ",") {
		r, ok := model.ParseRole(strings.TrimSpace(p))
		if !ok {
			log.Fatalf("invalid role in SLOT_CREATOR_ROLES: %q", p)
		}
		set[r] = struct{}{}
	}
	return set
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// optInt reads an optional integer env var, returning 0 when unset.
func optInt(key string) int {
	s := os.Getenv(key)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// optUint reads an optional unsigned integer env var, returning 0 when unset.
func optUint(key string) uint64 {
	s := os.Getenv(key)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		log.Fatalf("invalid id for %s: %q", key, s)
	}
	return n
}
