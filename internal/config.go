package internal

import (
	"dfss-dashboard/catalog"
	"dfss-dashboard/domain"
	"dfss-dashboard/errors"
	"fmt"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
)

var validate = validator.New()

type Config struct {
	APIBaseURL     string        `env:"API_BASE_URL,default=http://localhost:5001" validate:"required,url"`
	APIToken       string        `env:"API_TOKEN"`
	TokenLeeway    time.Duration `env:"TOKEN_LEEWAY,default=30s" validate:"gte=0"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT,default=30s" validate:"gt=0"`
	PageSize       int           `env:"PAGE_SIZE,default=0" validate:"gte=0"`
	SortLocale     string        `env:"SORT_LOCALE,default=en" validate:"required"`
	SearchOwner    bool          `env:"SEARCH_OWNER,default=false"`
	FoldArchives   bool          `env:"FOLD_ARCHIVES,default=false"`
	FailurePolicy  string        `env:"FAILURE_POLICY,default=halt" validate:"oneof=halt continue"`
	LogLevel       string        `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}
	config.LogLevel = strings.ToUpper(config.LogLevel)
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}
	if _, err := language.Parse(c.SortLocale); err != nil {
		return fmt.Errorf("SORT_LOCALE %q: %w", c.SortLocale, errors.ErrInvalidConfig)
	}
	return nil
}

func (c Config) Language() language.Tag {
	tag, err := language.Parse(c.SortLocale)
	if err != nil {
		return language.English
	}
	return tag
}

func (c Config) Policy() domain.FailurePolicy {
	return domain.FailurePolicy(c.FailurePolicy)
}

// CatalogOptions returns the view settings of the admin or the user dashboard.
func (c Config) CatalogOptions(admin bool) catalog.Options {
	opts := catalog.UserOptions()
	if admin {
		opts = catalog.AdminOptions()
	}
	if c.SearchOwner {
		opts.SearchOwner = true
	}
	if c.FoldArchives {
		opts.Taxonomy = domain.FoldedTaxonomy
	}
	opts.Language = c.Language()
	return opts
}

// ViewPageSize falls back to the page size of the matching dashboard when PAGE_SIZE is unset.
func (c Config) ViewPageSize(admin bool) int {
	switch {
	case c.PageSize > 0:
		return c.PageSize
	case admin:
		return domain.AdminPageSize
	default:
		return domain.UserPageSize
	}
}
